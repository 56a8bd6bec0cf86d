package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var definitions string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load wizard definitions and report problems",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := loadStore(definitions)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, id := range store.IDs() {
				w, _ := store.Wizard(id)
				fmt.Fprintf(out, "%s: %d steps (%s)\n", id, len(w.Steps), w.Source)
				for _, warning := range w.Warnings {
					fmt.Fprintf(out, "  warning: %s\n", warning)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&definitions, "definitions", "", "directory of wizard definitions (bundled wizards when empty)")
	return cmd
}
