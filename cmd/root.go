package cmd

import (
	"context"
	"log"

	"github.com/karthikeyakondabathula/llm-resume-parser/internal/ai/gemini"
	"github.com/karthikeyakondabathula/llm-resume-parser/internal/logger"
	"github.com/karthikeyakondabathula/llm-resume-parser/internal/processor"
	"github.com/karthikeyakondabathula/llm-resume-parser/internal/secrets"
	"github.com/karthikeyakondabathula/llm-resume-parser/internal/server"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	app = "resume-parser"

	apiKeyEnv = "GEMINI_API_KEY"
)

type Config struct {
	Service *ServiceConfig `mapstructure:"service"`
	Gemini  *GeminiConfig  `mapstructure:"gemini"`
}

type ServiceConfig struct {
	// BaseURL is the address of the hosted processing service used by
	// the view command.
	BaseURL string `mapstructure:"base-url"`
	// Listen is the address the serve command binds to.
	Listen    string `mapstructure:"listen"`
	StaticDir string `mapstructure:"static-dir"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-parser extracts structured data from PDF resumes with an LLM and reformats them",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A missing .env file is fine, the environment may be set directly.
	_ = godotenv.Load()

	if err := viper.BindEnv("gemini.api-key", apiKeyEnv); err != nil {
		log.Fatalf("binding %s environment variable: %v", apiKeyEnv, err)
	}
	if err := viper.BindEnv("service.base-url", "RESUME_PARSER_SERVICE_URL"); err != nil {
		log.Fatalf("binding RESUME_PARSER_SERVICE_URL environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-parser.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)

		// An explicitly requested config file must parse.
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app + ".yaml")

	// All commands have workable defaults, so a missing config is not an
	// error.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}

	if config.Service == nil {
		config.Service = &ServiceConfig{}
	}
	if config.Gemini == nil {
		config.Gemini = &GeminiConfig{}
	}
	if config.Service.BaseURL == "" {
		config.Service.BaseURL = processor.DefaultBaseURL
	}
	if config.Service.Listen == "" {
		config.Service.Listen = server.DefaultAddr
	}
	if config.Service.StaticDir == "" {
		config.Service.StaticDir = server.DefaultStaticDir
	}

	return config, nil
}

func newLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	return l
}

// newExtractor wires the full extraction pipeline against the Gemini API.
func newExtractor(ctx context.Context, cfg *GeminiConfig, l *zap.Logger) (*gemini.Extractor, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.APIKeyFile,
		Value: func() string {
			if cfg.APIKey != "" {
				return cfg.APIKey
			}
			return viper.GetString("gemini.api-key")
		}(),
		Env: apiKeyEnv,
	})
	if err != nil {
		return nil, err
	}

	genLogger := logger.WithProviderFields(l, "gemini", cfg.Model)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Model, cfg.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewExtractor(generator, cfg.MaxLogLength, genLogger), nil
}
