package definition

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formwizard/pkg/controls"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/registry"
)

//go:embed wizards/*
var embedded embed.FS

// EmbeddedFS returns the bundled example definitions.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embedded, "wizards")
	if err != nil {
		panic(err)
	}
	return sub
}

// Option customises loading.
type Option func(*loader)

type loader struct {
	controls *controls.Table
}

// WithControls resolves step kinds and values through table instead of the
// built-in control table.
func WithControls(table *controls.Table) Option {
	return func(l *loader) {
		if table != nil {
			l.controls = table
		}
	}
}

// LoadFS walks fsys and parses every definition file. A nil filesystem yields
// an empty store. Duplicate wizard ids across files are errors.
func LoadFS(fsys fs.FS, options ...Option) (*Store, error) {
	l := &loader{controls: controls.Default()}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}

	store := &Store{wizards: make(map[string]Wizard)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("definition: read %s: %w", path, err)
		}
		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for rawID, raw := range doc.Wizards {
			id := strings.TrimSpace(rawID)
			if id == "" {
				return fmt.Errorf("definition: file %s defines an empty wizard id", path)
			}
			if existing, exists := store.wizards[id]; exists {
				return fmt.Errorf("definition: duplicate wizard %q (files %s and %s)", id, existing.Source, path)
			}
			w, err := l.normaliseWizard(raw, id, path)
			if err != nil {
				return err
			}
			store.wizards[id] = w
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, fmt.Errorf("definition: file %s is empty", source)
	}

	var err error
	switch strings.ToLower(filepath.Ext(source)) {
	case ".json":
		err = json.Unmarshal(data, &doc)
	case ".toml":
		err = toml.Unmarshal(data, &doc)
	default:
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return documentFile{}, fmt.Errorf("definition: parse %s: %w", source, err)
	}
	return doc, nil
}

func (l *loader) normaliseWizard(raw wizardFile, id, source string) (Wizard, error) {
	w := Wizard{
		ID:     id,
		Source: source,
		Title:  strings.TrimSpace(raw.Title),
		Config: raw.Config.resolve(),
	}

	// Steps go through a registry so duplicate names follow the same upsert
	// policy as runtime registration.
	steps := registry.New()
	for idx, rawStep := range raw.Steps {
		step, err := l.normaliseStep(rawStep)
		if err != nil {
			return Wizard{}, fmt.Errorf("definition: wizard %q (file %s) step %d: %w", id, source, idx, err)
		}
		inserted, err := steps.Register(step)
		if err != nil {
			return Wizard{}, fmt.Errorf("definition: wizard %q (file %s) step %d: %w", id, source, idx, err)
		}
		if !inserted {
			w.Warnings = append(w.Warnings, fmt.Sprintf("step %q declared more than once; later declaration wins", step.Name))
		}
	}
	w.Steps = steps.Snapshot()
	return w, nil
}

func (l *loader) normaliseStep(raw stepFile) (model.Input, error) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return model.Input{}, registry.ErrNameRequired
	}

	mode := model.ValidationCustom
	switch strings.ToLower(strings.TrimSpace(raw.Validation)) {
	case "", string(model.ValidationCustom):
	case string(model.ValidationBuiltin):
		mode = model.ValidationBuiltin
	default:
		return model.Input{}, fmt.Errorf("step %q: unknown validation mode %q", name, raw.Validation)
	}

	icon := SanitizeIcon(raw.Icon)
	if icon == "" && strings.TrimSpace(raw.Icon) != "" {
		return model.Input{}, fmt.Errorf("step %q: icon markup sanitises to nothing", name)
	}

	rules := make([]model.ValidationRule, 0, len(raw.Rules))
	for _, rule := range raw.Rules {
		kind := strings.TrimSpace(rule.Kind)
		if kind == "" {
			return model.Input{}, fmt.Errorf("step %q: rule without kind", name)
		}
		rules = append(rules, model.ValidationRule{Kind: kind, Params: rule.Params})
	}

	input := model.Input{
		Name:        name,
		Kind:        model.ControlKind(strings.TrimSpace(raw.Kind)),
		Label:       strings.TrimSpace(raw.Label),
		Caption:     strings.TrimSpace(raw.Caption),
		Icon:        icon,
		Placeholder: raw.Placeholder,
		Options:     raw.Options,
		Height:      raw.Height,
		Rules:       rules,
		Validation:  mode,
		Value:       raw.Default,
	}
	if len(input.Rules) == 0 {
		input.Rules = nil
	}
	return l.controls.Prepare(input)
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml", ".toml":
		return true
	default:
		return false
	}
}
