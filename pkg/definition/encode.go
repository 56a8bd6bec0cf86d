package definition

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

// MarshalYAML encodes steps as a single-wizard definition document that
// LoadFS reads back. Config is left to its defaults; empty step values are
// dropped.
func MarshalYAML(id, title string, steps []model.Input) ([]byte, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("definition: wizard id is required")
	}
	wf := wizardFile{Title: strings.TrimSpace(title)}
	for _, step := range steps {
		wf.Steps = append(wf.Steps, stepFromInput(step))
	}
	out, err := yaml.Marshal(documentFile{Wizards: map[string]wizardFile{id: wf}})
	if err != nil {
		return nil, fmt.Errorf("definition: encode wizard %q: %w", id, err)
	}
	return out, nil
}

func stepFromInput(in model.Input) stepFile {
	step := stepFile{
		Name:        in.Name,
		Kind:        string(in.Kind),
		Label:       in.Label,
		Caption:     in.Caption,
		Icon:        in.Icon,
		Placeholder: in.Placeholder,
		Height:      in.Height,
		Options:     in.Options,
		Rules:       in.Rules,
	}
	if in.Validation == model.ValidationBuiltin {
		step.Validation = string(in.Validation)
	}
	if !validation.IsEmpty(in.Value) {
		step.Default = in.Value
	}
	return step
}
