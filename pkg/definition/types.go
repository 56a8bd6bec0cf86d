package definition

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Wizard is a loaded, normalised wizard definition.
type Wizard struct {
	ID     string
	Source string
	Title  string
	Config wizard.Config
	Steps  []model.Input
	// Warnings lists non fatal issues such as duplicate step names.
	Warnings []string
}

// Mount registers every step of the definition on ctrl in declared order.
func (w Wizard) Mount(ctrl *wizard.Controller) error {
	if ctrl == nil {
		return fmt.Errorf("definition: wizard %q: controller is nil", w.ID)
	}
	for _, step := range w.Steps {
		if err := ctrl.Register(step); err != nil {
			return fmt.Errorf("definition: wizard %q: %w", w.ID, err)
		}
	}
	return nil
}

// Options returns the controller options implied by the definition.
func (w Wizard) Options() []wizard.Option {
	return []wizard.Option{wizard.WithConfig(w.Config)}
}

// Store holds loaded definitions keyed by wizard id.
type Store struct {
	wizards map[string]Wizard
}

// Wizard returns the definition for id.
func (s *Store) Wizard(id string) (Wizard, bool) {
	if s == nil {
		return Wizard{}, false
	}
	w, ok := s.wizards[id]
	return w, ok
}

// IDs lists the loaded wizard ids in lexical order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.wizards))
	for id := range s.wizards {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any wizard.
func (s *Store) Empty() bool {
	return s == nil || len(s.wizards) == 0
}

type documentFile struct {
	Wizards map[string]wizardFile `json:"wizards" yaml:"wizards" toml:"wizards"`
}

type wizardFile struct {
	Title  string     `json:"title,omitempty" yaml:"title,omitempty" toml:"title"`
	Config configFile `json:"config,omitempty" yaml:"config,omitempty" toml:"config"`
	Steps  []stepFile `json:"steps,omitempty" yaml:"steps,omitempty" toml:"steps"`
}

// configFile uses pointers for booleans so absent keys keep their defaults.
type configFile struct {
	Tabs         *bool   `json:"tabs,omitempty" yaml:"tabs,omitempty" toml:"tabs"`
	SubmitText   string  `json:"submitText,omitempty" yaml:"submitText,omitempty" toml:"submitText"`
	SubmitWidth  float64 `json:"submitWidth,omitempty" yaml:"submitWidth,omitempty" toml:"submitWidth"`
	SubmitHeight float64 `json:"submitHeight,omitempty" yaml:"submitHeight,omitempty" toml:"submitHeight"`
	BaseHeight   float64 `json:"baseHeight,omitempty" yaml:"baseHeight,omitempty" toml:"baseHeight"`
	InitialFocus *bool   `json:"initialFocus,omitempty" yaml:"initialFocus,omitempty" toml:"initialFocus"`
}

type stepFile struct {
	Name        string                 `json:"name,omitempty" yaml:"name,omitempty" toml:"name"`
	Kind        string                 `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind"`
	Label       string                 `json:"label,omitempty" yaml:"label,omitempty" toml:"label"`
	Caption     string                 `json:"caption,omitempty" yaml:"caption,omitempty" toml:"caption"`
	Icon        string                 `json:"icon,omitempty" yaml:"icon,omitempty" toml:"icon"`
	Placeholder string                 `json:"placeholder,omitempty" yaml:"placeholder,omitempty" toml:"placeholder"`
	Height      *float64               `json:"height,omitempty" yaml:"height,omitempty" toml:"height"`
	Validation  string                 `json:"validation,omitempty" yaml:"validation,omitempty" toml:"validation"`
	Options     []model.Option         `json:"options,omitempty" yaml:"options,omitempty" toml:"options"`
	Rules       []model.ValidationRule `json:"rules,omitempty" yaml:"rules,omitempty" toml:"rules"`
	Default     any                    `json:"default,omitempty" yaml:"default,omitempty" toml:"default"`
}

func (c configFile) resolve() wizard.Config {
	cfg := wizard.DefaultConfig()
	if c.Tabs != nil {
		cfg.Tabs = *c.Tabs
	}
	if c.InitialFocus != nil {
		cfg.InitialFocus = *c.InitialFocus
	}
	cfg.SubmitText = c.SubmitText
	cfg.SubmitWidth = c.SubmitWidth
	cfg.SubmitHeight = c.SubmitHeight
	cfg.BaseHeight = c.BaseHeight
	return cfg.Normalize()
}
