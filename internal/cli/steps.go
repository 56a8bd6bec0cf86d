package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwizard/pkg/definition"
	"github.com/goliatone/go-formwizard/pkg/openapi"
)

func newStepsCmd(opts *rootOptions) *cobra.Command {
	var (
		source      string
		operationID string
		wizardID    string
	)

	cmd := &cobra.Command{
		Use:   "steps",
		Short: "Derive wizard steps from an OpenAPI operation",
		Long: `steps reads an OpenAPI 3 document and prints a wizard definition whose steps are
the properties of the operation's request body. Without --operation it lists the
operation ids found in the document.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(source) == "" {
				return errors.New("--openapi is required")
			}
			raw, err := os.ReadFile(source)
			if err != nil {
				return fmt.Errorf("read openapi document: %w", err)
			}

			importOpts := []openapi.Option{openapi.WithLogger(opts.logger(cmd))}
			out := cmd.OutOrStdout()
			if strings.TrimSpace(operationID) == "" {
				ids, err := openapi.Operations(cmd.Context(), raw, importOpts...)
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(out, id)
				}
				return nil
			}

			steps, err := openapi.Steps(cmd.Context(), raw, operationID, importOpts...)
			if err != nil {
				return err
			}
			id := wizardID
			if id == "" {
				id = operationID
			}
			doc, err := definition.MarshalYAML(id, "", steps)
			if err != nil {
				return err
			}
			_, err = out.Write(doc)
			return err
		},
	}

	cmd.Flags().StringVar(&source, "openapi", "", "OpenAPI document path")
	cmd.Flags().StringVar(&operationID, "operation", "", "operation id whose request body becomes the steps")
	cmd.Flags().StringVar(&wizardID, "id", "", "wizard id of the printed definition (defaults to the operation id)")
	return cmd
}
