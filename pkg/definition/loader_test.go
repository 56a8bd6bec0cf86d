package definition_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/definition"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

const yamlDoc = `
wizards:
  signup:
    config:
      tabs: false
      submitText: Join
    steps:
      - name: email
        label: Email
        rules:
          - kind: required
          - kind: email
      - name: plan
        kind: radio
        default: Pro
        options:
          - value: free
            label: Free
          - value: pro
            label: Pro
      - name: email
        label: Work email
`

const jsonDoc = `{
  "wizards": {
    "feedback": {
      "steps": [
        {"name": "score", "kind": "select", "validation": "builtin"},
        {"name": "areas", "kind": "checkbox", "default": ["ui"], "options": [{"value": "ui"}, {"value": "api"}]}
      ]
    }
  }
}`

const tomlDoc = `
[wizards.survey]
title = "Quick survey"

[wizards.survey.config]
submitWidth = 140
initialFocus = false

[[wizards.survey.steps]]
name = "nickname"
placeholder = "anon"
height = 80.0

[[wizards.survey.steps.rules]]
kind = "minLength"
params = { value = "2" }
`

func TestLoadFS_Formats(t *testing.T) {
	store, err := definition.LoadFS(fstest.MapFS{
		"signup.yaml":   {Data: []byte(yamlDoc)},
		"nested/f.json": {Data: []byte(jsonDoc)},
		"survey.toml":   {Data: []byte(tomlDoc)},
		"README.md":     {Data: []byte("ignored")},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"feedback", "signup", "survey"}, store.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	signup, _ := store.Wizard("signup")
	if signup.Config.Tabs || signup.Config.SubmitText != "Join" || !signup.Config.InitialFocus {
		t.Fatalf("unexpected signup config %+v", signup.Config)
	}
	if got := len(signup.Steps); got != 2 {
		t.Fatalf("expected duplicate step to be upserted, got %d steps", got)
	}
	if signup.Steps[0].Name != "email" || signup.Steps[0].Label != "Work email" {
		t.Fatalf("expected later declaration in first position, got %+v", signup.Steps[0])
	}
	if len(signup.Warnings) != 1 || !strings.Contains(signup.Warnings[0], "email") {
		t.Fatalf("expected duplicate warning, got %v", signup.Warnings)
	}
	if plan := signup.Steps[1]; plan.Kind != model.ControlRadio || plan.Value != "pro" {
		t.Fatalf("expected radio default coerced to option value, got %q %v", plan.Kind, plan.Value)
	}

	feedback, _ := store.Wizard("feedback")
	if feedback.Steps[0].Validation != model.ValidationBuiltin || feedback.Steps[0].Kind != model.ControlSelect {
		t.Fatalf("unexpected feedback step %+v", feedback.Steps[0])
	}
	if diff := cmp.Diff(map[string]bool{"ui": true, "api": false}, feedback.Steps[1].Value); diff != "" {
		t.Fatalf("checkbox default mismatch (-want +got):\n%s", diff)
	}

	survey, _ := store.Wizard("survey")
	if survey.Title != "Quick survey" || survey.Config.SubmitWidth != 140 || survey.Config.InitialFocus {
		t.Fatalf("unexpected survey %+v", survey)
	}
	step := survey.Steps[0]
	if step.Kind != model.ControlText || step.Height == nil || *step.Height != 80 {
		t.Fatalf("unexpected survey step %+v", step)
	}
	if diff := cmp.Diff([]model.ValidationRule{model.Rule("minLength", "value", "2")}, step.Rules); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFS_Errors(t *testing.T) {
	cases := map[string]fstest.MapFS{
		"duplicate wizard": {
			"a.yaml": {Data: []byte("wizards:\n  w:\n    steps: [{name: a}]\n")},
			"b.yaml": {Data: []byte("wizards:\n  w:\n    steps: [{name: b}]\n")},
		},
		"empty file":       {"a.yaml": {Data: []byte("  ")}},
		"invalid json":     {"a.json": {Data: []byte("{")}},
		"blank step name":  {"a.yaml": {Data: []byte("wizards:\n  w:\n    steps: [{label: x}]\n")}},
		"bad validation":   {"a.yaml": {Data: []byte("wizards:\n  w:\n    steps: [{name: a, validation: html}]\n")}},
		"unknown option":   {"a.yaml": {Data: []byte("wizards:\n  w:\n    steps: [{name: a, kind: radio, default: x, options: [{value: y}]}]\n")}},
		"script only icon": {"a.yaml": {Data: []byte("wizards:\n  w:\n    steps: [{name: a, icon: \"<script>x</script>\"}]\n")}},
	}
	for name, fsys := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := definition.LoadFS(fsys); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadFS_NilFS(t *testing.T) {
	store, err := definition.LoadFS(nil)
	if err != nil || !store.Empty() {
		t.Fatalf("expected empty store, got %v (%v)", store.IDs(), err)
	}
}

func TestEmbeddedBookmarkMounts(t *testing.T) {
	store, err := definition.LoadFS(definition.EmbeddedFS())
	if err != nil {
		t.Fatalf("load embedded: %v", err)
	}
	bookmark, ok := store.Wizard("bookmark")
	if !ok {
		t.Fatalf("bookmark wizard missing")
	}

	ctrl := wizard.New(append(bookmark.Options(), wizard.WithAutoCompleteAnimations())...)
	defer ctrl.Close()
	if err := bookmark.Mount(ctrl); err != nil {
		t.Fatalf("mount: %v", err)
	}

	snap := ctrl.Snapshot()
	names := make([]string, len(snap.Inputs))
	for i, in := range snap.Inputs {
		names[i] = in.Name
	}
	if diff := cmp.Diff([]string{"url", "title", "type", "factor", "topics"}, names); diff != "" {
		t.Fatalf("step order mismatch (-want +got):\n%s", diff)
	}
	if snap.Config.SubmitText != "Save bookmark" {
		t.Fatalf("expected config from definition, got %+v", snap.Config)
	}
	if ctrl.RequestNext() {
		t.Fatalf("expected required url to block advance")
	}
	ctrl.SetValue("url", "notaurl")
	if ctrl.RequestNext() {
		t.Fatalf("expected url rule to block advance")
	}
	ctrl.SetValue("url", "https://go.dev/blog")
	if !ctrl.RequestNext() {
		t.Fatalf("expected advance with a valid url, error %+v", ctrl.Snapshot().Error)
	}
}

func TestSanitizeIcon(t *testing.T) {
	if got := definition.SanitizeIcon(" link "); got != "link" {
		t.Fatalf("expected icon names to pass through, got %q", got)
	}
	got := definition.SanitizeIcon(`<svg viewBox="0 0 24 24" onload="x()"><script>alert('x')</script><path d="M0 0h24v24H0z" /></svg>`)
	if strings.Contains(got, "script") || strings.Contains(got, "onload") {
		t.Fatalf("expected unsafe markup removed, got %q", got)
	}
	if !strings.Contains(got, "<svg") || !strings.Contains(got, "<path") {
		t.Fatalf("expected svg and path to remain, got %q", got)
	}
}

func TestMarshalYAML_RoundTrips(t *testing.T) {
	steps := []model.Input{
		{
			Name:       "title",
			Kind:       model.ControlText,
			Label:      "Title",
			Rules:      []model.ValidationRule{model.Rule("required"), model.Rule("maxLength", "value", "80")},
			Validation: model.ValidationCustom,
			Value:      "",
		},
		{
			Name:       "status",
			Kind:       model.ControlRadio,
			Options:    []model.Option{{Value: "draft"}, {Value: "published", Label: "Published"}},
			Validation: model.ValidationCustom,
			Value:      "draft",
		},
	}

	raw, err := definition.MarshalYAML("article", "Article", steps)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "config:") {
		t.Fatalf("expected default config to be omitted, got:\n%s", raw)
	}

	store, err := definition.LoadFS(fstest.MapFS{"article.yaml": {Data: raw}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	w, ok := store.Wizard("article")
	if !ok {
		t.Fatalf("expected wizard article, got %v", store.IDs())
	}
	if w.Title != "Article" {
		t.Fatalf("unexpected title %q", w.Title)
	}
	if diff := cmp.Diff(steps, w.Steps); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}

	if _, err := definition.MarshalYAML(" ", "", steps); err == nil {
		t.Fatalf("expected error for blank id")
	}
}
