// Package cli implements the formwizard command line.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwizard/pkg/definition"
)

type rootOptions struct {
	verbose int
}

// logger writes to stderr; each -v raises the logr verbosity by one.
func (o *rootOptions) logger(cmd *cobra.Command) logr.Logger {
	level := slog.LevelWarn
	if o.verbose > 0 {
		level = slog.Level(-o.verbose)
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	return logr.FromSlogHandler(handler)
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "formwizard",
		Short: "Run multi-step form wizards in the terminal",
		Long: `formwizard runs multi-step form wizards declared in YAML, JSON or TOML files.

Each step is validated before the wizard advances; the final step submits the
collected values, printing them or posting them to a bookmark endpoint.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().CountVarP(&opts.verbose, "verbose", "v", "increase log verbosity")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newValidateCmd())
	root.AddCommand(newStepsCmd(opts))
	root.AddCommand(newKeyframesCmd())
	return root
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadStore reads definitions from dir, or the bundled ones when dir is empty.
func loadStore(dir string) (*definition.Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return definition.LoadFS(definition.EmbeddedFS())
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("definitions: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("definitions: %s is not a directory", dir)
	}
	store, err := definition.LoadFS(os.DirFS(dir))
	if err != nil {
		return nil, err
	}
	if store.Empty() {
		return nil, fmt.Errorf("definitions: no wizard definitions found in %s", dir)
	}
	return store, nil
}

func findWizard(store *definition.Store, id string) (definition.Wizard, error) {
	w, ok := store.Wizard(id)
	if !ok {
		return definition.Wizard{}, fmt.Errorf("wizard %q not found (available: %s)", id, strings.Join(store.IDs(), ", "))
	}
	return w, nil
}
