package cmd

import (
	"context"

	"github.com/karthikeyakondabathula/llm-resume-parser/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the resume processing HTTP service",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "listen address (default "+server.DefaultAddr+")")
	serveCmd.Flags().String("static-dir", "", "directory for generated documents (default "+server.DefaultStaticDir+")")

	viper.BindPFlag("service.listen", serveCmd.Flags().Lookup("listen"))
	viper.BindPFlag("service.static-dir", serveCmd.Flags().Lookup("static-dir"))
}

func serve() {
	ctx := context.Background()

	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-parser service", zap.String("version", version))

	extractor, err := newExtractor(ctx, config.Gemini, logger)
	if err != nil {
		logger.Fatal(
			"building the extractor",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY or the gemini.api-key-file key in the configuration file"),
		)
	}

	srv := server.New(server.Config{
		Addr:      config.Service.Listen,
		StaticDir: config.Service.StaticDir,
	}, extractor, logger)

	if err := srv.Run(); err != nil {
		logger.Fatal("service stopped", zap.Error(err))
	}
}
