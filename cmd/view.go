package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"github.com/karthikeyakondabathula/llm-resume-parser/internal/processor"
	"github.com/karthikeyakondabathula/llm-resume-parser/internal/viewer"
	"github.com/karthikeyakondabathula/llm-resume-parser/internal/workflow"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	PromptViewLocal      = "View a PDF locally"
	PromptProcess        = "Send a resume for processing"
	PromptTestConnection = "Test the connection"
	PromptNextPage       = "Next page"
	PromptPrevPage       = "Previous page"
	PromptGoToPage       = "Go to page"
	PromptZoomIn         = "Zoom in"
	PromptZoomOut        = "Zoom out"
	PromptCloseDocument  = "Close the document"
	PromptShowJSON       = "Show the extracted JSON"
	PromptShowAddress    = "Show the generated document address"
	PromptBack           = "Back to upload"
	PromptQuit           = "Quit"

	zoomStep = 0.25
)

var errExit = errors.New("exit requested")

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Interactive resume workflow: view PDFs locally or send them for processing",
	Run: func(_ *cobra.Command, _ []string) {
		view()
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

// session holds everything the interactive loop needs.
type session struct {
	ctx     context.Context
	state   *viewer.State
	shell   *workflow.Shell
	results *workflow.Results
	coord   *workflow.Coordinator
	logger  *zap.Logger
}

func view() {
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume workflow",
		zap.String("version", version),
		zap.String("service", config.Service.BaseURL),
	)

	state := viewer.New(viewer.NewPDFOpener(), viewer.NewTextRenderer(os.Stdout), logger)
	shell := workflow.NewShell(logger)
	results := workflow.NewResults()
	client := processor.New(config.Service.BaseURL, logger)

	s := &session{
		ctx:     context.Background(),
		state:   state,
		shell:   shell,
		results: results,
		coord:   workflow.NewCoordinator(state, client, shell, results, logger),
		logger:  logger,
	}

	for {
		var err error

		switch s.shell.Mode() {
		case workflow.ModeViewer:
			err = s.viewerMenu()
		case workflow.ModeResults:
			err = s.resultsMenu()
		default:
			err = s.uploadMenu()
		}

		if errors.Is(err, errExit) {
			return
		}
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func (s *session) uploadMenu() error {
	prompt := promptui.Select{
		Label: "What to do with a resume?",
		Items: []string{PromptViewLocal, PromptProcess, PromptTestConnection, PromptQuit},
	}

	_, action, err := prompt.Run()
	if err != nil {
		return err
	}

	switch action {
	case PromptViewLocal:
		file, err := askForFile()
		if err != nil {
			return err
		}
		if err := s.coord.UploadForLocalView(file); err != nil {
			s.logger.Warn("could not open the document", zap.Error(err))
		}
	case PromptProcess:
		file, err := askForFile()
		if err != nil {
			return err
		}
		if _, err := s.coord.UploadForProcessing(s.ctx, file); err != nil {
			s.logger.Warn("processing failed", zap.Error(err))
		}
	case PromptTestConnection:
		if err := s.coord.TestConnection(s.ctx); err != nil {
			s.logger.Warn("the service is not reachable", zap.Error(err))
			return nil
		}
		s.logger.Info("the service is healthy")
	case PromptQuit:
		return errExit
	}

	return nil
}

func (s *session) viewerMenu() error {
	prompt := promptui.Select{
		Label: fmt.Sprintf("%s, page %d/%d @ %.2fx",
			s.state.FileName(), s.state.PageNumber(), s.state.PageCount(), s.state.Scale()),
		Items: []string{
			PromptNextPage, PromptPrevPage, PromptGoToPage,
			PromptZoomIn, PromptZoomOut, PromptCloseDocument, PromptQuit,
		},
	}

	_, action, err := prompt.Run()
	if err != nil {
		return err
	}

	switch action {
	case PromptNextPage:
		s.state.GoToPage(s.state.PageNumber() + 1)
	case PromptPrevPage:
		s.state.GoToPage(s.state.PageNumber() - 1)
	case PromptGoToPage:
		n, err := askForNumber("Page number")
		if err != nil {
			return err
		}
		s.state.GoToPage(n)
	case PromptZoomIn:
		s.state.SetScale(s.state.Scale() + zoomStep)
	case PromptZoomOut:
		s.state.SetScale(s.state.Scale() - zoomStep)
	case PromptCloseDocument:
		s.state.Clear()
		s.shell.Show(workflow.ModeUpload)
	case PromptQuit:
		return errExit
	}

	return nil
}

func (s *session) resultsMenu() error {
	prompt := promptui.Select{
		Label: "Processing finished",
		Items: []string{PromptShowJSON, PromptShowAddress, PromptBack, PromptQuit},
	}

	_, action, err := prompt.Run()
	if err != nil {
		return err
	}

	result := s.results.Current()

	switch action {
	case PromptShowJSON:
		if result == nil {
			s.logger.Warn("no results available")
			return nil
		}
		pretty, _ := json.MarshalIndent(result.Record, "", "  ")
		fmt.Println(string(pretty))
	case PromptShowAddress:
		if result == nil {
			s.logger.Warn("no results available")
			return nil
		}
		fmt.Printf("Reformatted document: %s\n", result.PDFURL)
	case PromptBack:
		s.results.Clear()
		s.shell.Show(workflow.ModeUpload)
	case PromptQuit:
		return errExit
	}

	return nil
}

func askForFile() (workflow.File, error) {
	prompt := promptui.Prompt{
		Label: "Path to the PDF file",
		Validate: func(input string) error {
			if input == "" {
				return errors.New("a path is required")
			}
			return nil
		},
	}

	path, err := prompt.Run()
	if err != nil {
		return workflow.File{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return workflow.File{}, fmt.Errorf("reading %s: %w", path, err)
	}

	return workflow.File{
		Name:      filepath.Base(path),
		MediaType: fileMediaType(path),
		Data:      data,
	}, nil
}

// fileMediaType guesses the media type from the extension. An unknown
// extension yields an empty type so the upload gate decides on the name
// alone.
func fileMediaType(path string) string {
	return mime.TypeByExtension(filepath.Ext(path))
}

func askForNumber(label string) (int, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if _, err := strconv.Atoi(input); err != nil {
				return errors.New("a number is required")
			}
			return nil
		},
	}

	raw, err := prompt.Run()
	if err != nil {
		return 0, err
	}

	return strconv.Atoi(raw)
}
