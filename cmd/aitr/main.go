package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ai-translator/aitr/pkg/config"
	"github.com/ai-translator/aitr/pkg/db"
	"github.com/ai-translator/aitr/pkg/i18n"
	"github.com/ai-translator/aitr/pkg/log"
	"github.com/ai-translator/aitr/pkg/ui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configPath string
	apiBase    string
	logLevel   string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Terminal client for an English-to-X translation service",
		Long: `aitr sends English text to a translation service and shows the result.

Without a subcommand it starts the interactive terminal UI. The subcommands
talk to the same service without the UI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runTUI(cfg)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/aitr/config.yaml)")
	root.PersistentFlags().StringVar(&apiBase, "api-base", "", "Translation service base URL")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newLanguagesCmd(),
		newTranslateCmd(),
		newHistoryCmd(),
		newVersionCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the persistent flags on top.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		config.SetConfigPath(configPath)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if apiBase != "" {
		cfg.APIBase = apiBase
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	i18n.SetLanguage(cfg.Language)
	return cfg, nil
}

func runTUI(cfg *config.Config) error {
	if err := log.Init(config.AppName, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not initialize logger: %v\n", err)
	}
	defer log.Close()

	if cfg.EnableAudit {
		if err := db.Init(cfg.AuditPath); err != nil {
			log.Errorf("Failed to initialize audit database: %v", err)
		}
		defer db.Close()
	}

	app, err := ui.NewAppWithConfig(cfg)
	if err != nil {
		return err
	}
	if err := app.Run(); err != nil {
		log.Errorf("Application exited with error: %v", err)
		return err
	}
	log.Infof("%s exited cleanly.", config.AppName)
	return nil
}
