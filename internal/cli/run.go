package cli

import (
	"encoding/json"
	"fmt"

	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwizard/pkg/bookmark"
	tearenderer "github.com/goliatone/go-formwizard/pkg/renderers/tea"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

const (
	uiPrompt = "prompt"
	uiTea    = "tea"
)

var newPromptDriver = func(cmd *cobra.Command) tui.PromptDriver {
	return tui.NewSurveyDriver(cmd.ErrOrStderr())
}

var runTea = tearenderer.Run

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		definitions string
		wizardID    string
		ui          string
		endpoint    string
		format      string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a wizard and print or post the collected values",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := opts.logger(cmd)

			store, err := loadStore(definitions)
			if err != nil {
				return err
			}
			w, err := findWizard(store, wizardID)
			if err != nil {
				return err
			}

			wizardOpts := append(w.Options(), wizard.WithLogger(logger))
			if endpoint != "" {
				client := bookmark.NewClient(endpoint, bookmark.WithLogger(logger))
				wizardOpts = append(wizardOpts, wizard.WithSubmitHandler(bookmark.SubmitHandler(client, bookmark.DefaultFields())))
			}
			if ui == uiPrompt {
				wizardOpts = append(wizardOpts, wizard.WithAutoCompleteAnimations())
			}

			ctrl := wizard.New(wizardOpts...)
			defer ctrl.Close()
			if err := w.Mount(ctrl); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch ui {
			case uiPrompt:
				runner := tui.New(
					tui.WithPromptDriver(newPromptDriver(cmd)),
					tui.WithOutputFormat(tui.OutputFormat(format)),
					tui.WithLogger(logger),
				)
				data, err := runner.Run(cmd.Context(), ctrl)
				if err != nil {
					return fmt.Errorf("run wizard %q: %w", w.ID, err)
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			case uiTea:
				values, err := runTea(cmd.Context(), ctrl,
					[]tearenderer.Option{tearenderer.WithLogger(logger)},
					bubbletea.WithInput(cmd.InOrStdin()),
					bubbletea.WithOutput(cmd.ErrOrStderr()),
				)
				if err != nil {
					return fmt.Errorf("run wizard %q: %w", w.ID, err)
				}
				data, err := json.MarshalIndent(values, "", "  ")
				if err != nil {
					return fmt.Errorf("encode values: %w", err)
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			default:
				return fmt.Errorf("unknown --ui %q (expected %s or %s)", ui, uiPrompt, uiTea)
			}
		},
	}

	cmd.Flags().StringVar(&definitions, "definitions", "", "directory of wizard definitions (bundled wizards when empty)")
	cmd.Flags().StringVar(&wizardID, "wizard", "bookmark", "wizard id to run")
	cmd.Flags().StringVar(&ui, "ui", uiPrompt, "terminal interface: prompt or tea")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "bookmark service base URL; values are posted to <endpoint>/articles/add")
	cmd.Flags().StringVar(&format, "format", string(tui.OutputFormatJSON), "prompt output format: json or pretty")
	return cmd
}
