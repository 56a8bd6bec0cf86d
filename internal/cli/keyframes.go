package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwizard/pkg/animation"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/renderers/keyframes"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

func newKeyframesCmd() *cobra.Command {
	var (
		definitions string
		wizardID    string
		width       float64
		prefix      string
	)

	cmd := &cobra.Command{
		Use:   "keyframes",
		Short: "Print the CSS transition into every step of a wizard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if width <= 0 {
				return fmt.Errorf("--width must be positive, got %v", width)
			}
			store, err := loadStore(definitions)
			if err != nil {
				return err
			}
			w, err := findWizard(store, wizardID)
			if err != nil {
				return err
			}
			renderer, err := keyframes.New(keyframes.WithPrefix(prefix))
			if err != nil {
				return err
			}

			cfg := w.Config
			geometry := animation.NewGeometry(cfg.BaseHeight, cfg.SubmitWidth, cfg.SubmitHeight)
			geometry.Capture(model.Size{Width: width})

			n := len(w.Steps)
			size := func(i int) model.Size {
				if i >= n {
					return geometry.StepSize(nil, model.Size{}, true)
				}
				return geometry.StepSize(&w.Steps[i], model.Size{}, false)
			}

			out := cmd.OutOrStdout()
			for i := 1; i <= n; i++ {
				snap := wizard.Snapshot{
					ID:           w.ID,
					Inputs:       w.Steps,
					ActiveIndex:  i,
					IsSubmitPage: i == n,
					Animation:    geometry.Transition(size(i-1), size(i)),
					Config:       cfg,
				}
				css, err := renderer.Render(snap)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "/* step %d -> %d */\n%s\n", i-1, i, css)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&definitions, "definitions", "", "directory of wizard definitions (bundled wizards when empty)")
	cmd.Flags().StringVar(&wizardID, "wizard", "bookmark", "wizard id")
	cmd.Flags().Float64Var(&width, "width", 480, "rendered width of a step in pixels")
	cmd.Flags().StringVar(&prefix, "prefix", "fw", "CSS class prefix")
	return cmd
}
