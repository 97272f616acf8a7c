package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/blixt/tagstream/config"
)

var (
	configPath string
	logLevel   string

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tagstream",
	Short: "Find tool call tags in streamed model output",
	Long: "tagstream parses the text a language model streams back, picking out\n" +
		"tool call tags such as <create-file path=\"a.go\">...</create-file> while\n" +
		"they are still arriving.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Overload(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error loading .env: %w", err)
		}
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.Log.Level = logLevel
			if err := loaded.Validate(); err != nil {
				return err
			}
		}
		cfg = loaded
		log = newLogger(cfg)
		return nil
	},
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(cfg.LogLevel()).
		With().Timestamp().Logger()
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "tagstream.toml", "Config file (.toml, .yaml, .yml or .json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides the config)")

	parseCmd.Flags().Bool("json", false, "Print JSON instead of YAML")
	replayCmd.Flags().Int("chunk", 8, "Bytes per chunk")
	replayCmd.Flags().Duration("delay", 0, "Delay between chunks")
	replayCmd.Flags().Bool("sse", false, "Read server-sent chat completion events instead of raw text")
	serveCmd.Flags().String("addr", "", "Address to listen on (overrides the config)")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
