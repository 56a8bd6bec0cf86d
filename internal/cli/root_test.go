package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formwizard/pkg/bookmark"
	tearenderer "github.com/goliatone/go-formwizard/pkg/renderers/tea"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

const noteDefinition = `
wizards:
  note:
    title: Note
    steps:
      - name: url
        rules:
          - kind: required
      - name: title
      - name: topics
        kind: checkbox
        options:
          - value: go
          - value: css
      - name: title
        label: Title
`

const articleOpenAPI = `{
  "openapi": "3.0.3",
  "info": {"title": "articles", "version": "1.0.0"},
  "paths": {
    "/articles": {
      "post": {
        "operationId": "createArticle",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["title"],
                "properties": {
                  "title": {"type": "string", "maxLength": 80},
                  "status": {"type": "string", "enum": ["draft", "published"]}
                }
              }
            }
          }
        },
        "responses": {"201": {"description": "created"}}
      }
    }
  }
}`

type scriptedDriver struct {
	inputs    []string
	selects   []int
	multis    [][]int
	infos     []string
	inputPos  int
	selectPos int
	multiPos  int
}

func (d *scriptedDriver) Ask(_ context.Context, _ tui.TextPrompt) (string, error) {
	if d.inputPos >= len(d.inputs) {
		return "", errors.New("no input scripted")
	}
	d.inputPos++
	return d.inputs[d.inputPos-1], nil
}

func (d *scriptedDriver) Choose(_ context.Context, _ tui.ChoicePrompt) (int, error) {
	if d.selectPos >= len(d.selects) {
		return -1, errors.New("no select scripted")
	}
	d.selectPos++
	return d.selects[d.selectPos-1], nil
}

func (d *scriptedDriver) ChooseMany(_ context.Context, _ tui.ChoicePrompt) ([]int, error) {
	if d.multiPos >= len(d.multis) {
		return nil, errors.New("no multiselect scripted")
	}
	d.multiPos++
	return d.multis[d.multiPos-1], nil
}

func (d *scriptedDriver) Say(_ context.Context, line string) error {
	d.infos = append(d.infos, line)
	return nil
}

func executeRootCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeDefinitions(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func stubPromptDriver(t *testing.T, driver tui.PromptDriver) {
	t.Helper()
	original := newPromptDriver
	t.Cleanup(func() { newPromptDriver = original })
	newPromptDriver = func(*cobra.Command) tui.PromptDriver { return driver }
}

func TestValidateCommandReportsBundledWizards(t *testing.T) {
	output, err := executeRootCommand(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, output, "bookmark: 5 steps (bookmark.yaml)")
}

func TestValidateCommandReportsWarnings(t *testing.T) {
	dir := writeDefinitions(t, map[string]string{"note.yaml": noteDefinition})

	output, err := executeRootCommand(t, "validate", "--definitions", dir)
	require.NoError(t, err)
	assert.Contains(t, output, "note: 3 steps (note.yaml)")
	assert.Contains(t, output, `warning: step "title" declared more than once`)
}

func TestValidateCommandErrors(t *testing.T) {
	_, err := executeRootCommand(t, "validate", "--definitions", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)

	empty := t.TempDir()
	_, err = executeRootCommand(t, "validate", "--definitions", empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no wizard definitions found")

	broken := writeDefinitions(t, map[string]string{"broken.yaml": "wizards:\n  x:\n    steps:\n      - label: no name\n"})
	_, err = executeRootCommand(t, "validate", "--definitions", broken)
	require.Error(t, err)
}

func TestRunCommandPromptPostsBookmark(t *testing.T) {
	var posted bookmark.Bookmark
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, bookmark.AddPath, r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	dir := writeDefinitions(t, map[string]string{"note.yaml": noteDefinition})
	driver := &scriptedDriver{
		inputs:  []string{"https://example.com", "Hello"},
		multis:  [][]int{{1}},
		selects: []int{0},
	}
	stubPromptDriver(t, driver)

	output, err := executeRootCommand(t, "run", "--definitions", dir, "--wizard", "note", "--endpoint", srv.URL)
	require.NoError(t, err)

	assert.Equal(t, bookmark.Bookmark{ID: "https://example.com", Title: "Hello", Topics: []string{"css"}}, posted)

	var values map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &values))
	assert.Equal(t, "Hello", values["title"])
	assert.Equal(t, map[string]any{"go": false, "css": true}, values["topics"])
}

func TestRunCommandPromptPrettyOutput(t *testing.T) {
	dir := writeDefinitions(t, map[string]string{"note.yaml": noteDefinition})
	stubPromptDriver(t, &scriptedDriver{
		inputs:  []string{"https://example.com", "Hello"},
		multis:  [][]int{{0}},
		selects: []int{0},
	})

	output, err := executeRootCommand(t, "run", "--definitions", dir, "--wizard", "note", "--format", "pretty")
	require.NoError(t, err)
	assert.Contains(t, output, "Title: Hello")
	assert.Contains(t, output, "topics: go")
}

func TestRunCommandTea(t *testing.T) {
	original := runTea
	t.Cleanup(func() { runTea = original })
	runTea = func(_ context.Context, ctrl *wizard.Controller, _ []tearenderer.Option, _ ...bubbletea.ProgramOption) (map[string]any, error) {
		require.Equal(t, 5, ctrl.Snapshot().Count())
		return map[string]any{"url": "https://example.com"}, nil
	}

	output, err := executeRootCommand(t, "run", "--ui", "tea")
	require.NoError(t, err)
	assert.Contains(t, output, `"url": "https://example.com"`)
}

func TestRunCommandErrors(t *testing.T) {
	_, err := executeRootCommand(t, "run", "--wizard", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `wizard "missing" not found (available: bookmark)`)

	_, err = executeRootCommand(t, "run", "--ui", "gui")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown --ui "gui"`)

	stubPromptDriver(t, &scriptedDriver{})
	_, err = executeRootCommand(t, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input scripted")
}

func TestStepsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi.json")
	require.NoError(t, os.WriteFile(path, []byte(articleOpenAPI), 0o644))

	output, err := executeRootCommand(t, "steps", "--openapi", path)
	require.NoError(t, err)
	assert.Equal(t, "createArticle\n", output)

	output, err = executeRootCommand(t, "steps", "--openapi", path, "--operation", "createArticle", "--id", "article")
	require.NoError(t, err)
	assert.Contains(t, output, "article:")
	assert.Contains(t, output, "name: title")
	assert.Contains(t, output, "kind: radio")

	dir := writeDefinitions(t, map[string]string{"article.yaml": output})
	output, err = executeRootCommand(t, "validate", "--definitions", dir)
	require.NoError(t, err)
	assert.Contains(t, output, "article: 2 steps")

	_, err = executeRootCommand(t, "steps")
	require.Error(t, err)
}

func TestKeyframesCommand(t *testing.T) {
	output, err := executeRootCommand(t, "keyframes", "--prefix", "bm")
	require.NoError(t, err)
	assert.Contains(t, output, "/* step 0 -> 1 */")
	assert.Contains(t, output, "/* step 4 -> 5 */")
	assert.Contains(t, output, "@keyframes bm-outer-bookmark")
	assert.Equal(t, 1, strings.Count(output, "cursor: pointer;"))

	_, err = executeRootCommand(t, "keyframes", "--width", "0")
	require.Error(t, err)
}
