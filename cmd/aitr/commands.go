package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ai-translator/aitr/pkg/backend"
	"github.com/ai-translator/aitr/pkg/catalog"
	"github.com/ai-translator/aitr/pkg/config"
	"github.com/ai-translator/aitr/pkg/i18n"
	"github.com/ai-translator/aitr/pkg/log"
	"github.com/ai-translator/aitr/pkg/view"
	"github.com/ai-translator/aitr/pkg/workflow"
)

// setup loads the config and sends warnings to stderr, since the
// subcommands have no screen to protect.
func setup(cmd *cobra.Command) (*config.Config, *backend.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	level := "warn"
	if logLevel != "" {
		level = logLevel
	}
	log.SetOutput(cmd.ErrOrStderr(), level)

	client, err := backend.NewClient(cfg.APIBase, nil)
	if err != nil {
		return nil, nil, err
	}
	return cfg, client, nil
}

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the target languages",
		Long: `Fetch the language catalog from the service and list the languages
text can be translated into. The built-in list is shown when the service
cannot be reached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup(cmd)
			if err != nil {
				return err
			}
			loader := catalog.NewLoader(client)
			cat := loader.Load(cmd.Context())

			source := i18n.T("catalog_default")
			if loader.Remote() {
				source = i18n.T("catalog_remote")
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d (%s)\n", i18n.T("languages"), len(cat), source)
			for _, o := range view.TargetOptions(cat, config.SourceLanguage) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", o.Code, o.Name)
			}
			return nil
		},
	}
}

func newTranslateCmd() *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate text once and print the result",
		Long: `Translate English text into the target language. The text is taken
from the arguments, or from standard input when there are none.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := setup(cmd)
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				text = strings.TrimRight(string(data), "\n")
			}
			if target == "" {
				target = cfg.TargetLanguage
			}
			return runTranslate(cmd.Context(), cfg, client, text, target, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&target, "to", "t", "", "Target language code (default from config)")
	return cmd
}

// runTranslate drives one attempt through the same controller the UI uses.
func runTranslate(ctx context.Context, cfg *config.Config, client *backend.Client, text, target string, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	loader := catalog.NewLoader(client)
	loader.Load(ctx)

	ctrl := workflow.NewController(client, loader, workflow.Options{
		SourceLanguage: config.SourceLanguage,
		TargetLanguage: cfg.TargetLanguage,
		Timeout:        cfg.RequestTimeout,
	})
	defer ctrl.Close()

	if err := ctrl.SetTargetLanguage(target); err != nil {
		return fmt.Errorf("target %q: %w", target, err)
	}
	ctrl.SetText(text)

	done, err := ctrl.Translate(ctx)
	if errors.Is(err, workflow.ErrEmptyText) {
		return errors.New(i18n.T("empty_text_notice"))
	}
	if err != nil {
		return err
	}
	<-done

	snap := ctrl.Snapshot()
	v := view.Derive(snap, loader.Catalog())
	if v.SourceHint != "" {
		fmt.Fprintln(errOut, v.SourceHint)
	}
	if snap.State.Kind == workflow.Failed {
		return errors.New(snap.State.Message)
	}
	fmt.Fprintln(out, v.ResultText)
	return nil
}

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent translations recorded by the service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := setup(cmd)
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = cfg.HistoryLimit
			}
			entries, err := client.Recent(cmd.Context(), limit)
			if err != nil {
				return errors.New(i18n.Tf("history_error", map[string]any{"Error": err.Error()}))
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), i18n.T("history_empty"))
				return nil
			}
			for _, e := range entries {
				ts := e.Timestamp
				if t, ok := e.When(); ok {
					ts = t.Local().Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", ts, e.Model, e.InputText, e.OutputText)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of entries (default from config)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", config.AppName, version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit:    %s\n", commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:     %s\n", date)
		},
	}
}
