package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/karthikeyakondabathula/llm-resume-parser/internal/pdfdoc"
	"github.com/karthikeyakondabathula/llm-resume-parser/internal/pdfgen"
	"github.com/karthikeyakondabathula/llm-resume-parser/internal/resume"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var parseCmd = &cobra.Command{
	Use:   "parse <resume.pdf>",
	Short: "Parse a PDF resume into structured JSON and a reformatted document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		parse(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().String("json-out", "parsed_resume.json", "path for the extracted JSON")
	parseCmd.Flags().String("pdf-out", "output.pdf", "path for the reformatted PDF")
}

func parse(cmd *cobra.Command, path string) {
	ctx := context.Background()

	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume parser", zap.String("version", version))

	if err := pdfdoc.ValidateFile(path); err != nil {
		logger.Fatal("validating the resume file", zap.Error(err))
	}

	pages, err := pdfdoc.PageCountFile(path)
	if err != nil {
		logger.Fatal("counting pages", zap.Error(err))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("reading the resume file", zap.Error(err))
	}

	logger.Info("parsing the resume",
		zap.String("file", path),
		zap.Int("pages", pages),
		zap.Int("size", len(data)),
	)

	extractor, err := newExtractor(ctx, config.Gemini, logger)
	if err != nil {
		logger.Fatal(
			"building the extractor",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY or the gemini.api-key-file key in the configuration file"),
		)
	}

	record, err := extractor.ExtractResume(ctx, data)
	if err != nil {
		logger.Fatal("extracting the resume", zap.Error(err))
	}

	jsonOut := cmd.Flag("json-out").Value.String()
	if err := writeRecord(record, jsonOut); err != nil {
		logger.Fatal("writing the extracted JSON", zap.Error(err))
	}
	logger.Info("wrote the extracted JSON", zap.String("file", jsonOut))

	pdfOut := cmd.Flag("pdf-out").Value.String()
	if err := writeReformatted(record, pdfOut); err != nil {
		logger.Fatal("writing the reformatted PDF", zap.Error(err))
	}
	logger.Info("wrote the reformatted PDF", zap.String("file", pdfOut))
}

func writeRecord(record resume.Record, path string) error {
	pretty, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, append(pretty, '\n'), 0o644)
}

func writeReformatted(record resume.Record, path string) error {
	profile, err := resume.DecodeProfile(record)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return pdfgen.Build(profile, f)
}
