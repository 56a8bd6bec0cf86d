// Package formwizard is the top-level entry point for building multi-step
// wizards: load declarations, mount them on a controller, and render
// transitions.
package formwizard

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-formwizard/pkg/definition"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/openapi"
	"github.com/goliatone/go-formwizard/pkg/renderers/keyframes"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Input aliases model.Input for callers registering steps by hand.
type Input = model.Input

// Config aliases wizard.Config.
type Config = wizard.Config

// Snapshot aliases wizard.Snapshot, the read model handed to renderers.
type Snapshot = wizard.Snapshot

// Controller aliases wizard.Controller.
type Controller = wizard.Controller

// New exposes the controller constructor from the top-level module.
func New(options ...wizard.Option) *Controller {
	return wizard.New(options...)
}

// EmbeddedDefinitions exposes the bundled wizard declarations so callers can
// reuse or extend them without importing the definition package directly.
func EmbeddedDefinitions() fs.FS {
	return definition.EmbeddedFS()
}

// LoadDefinitions parses every definition file under fsys.
func LoadDefinitions(fsys fs.FS, options ...definition.Option) (*definition.Store, error) {
	return definition.LoadFS(fsys, options...)
}

// NewFromDefinitions loads fsys, picks wizard id and returns a controller
// with its config applied and its steps mounted. Extra options are applied
// after the definition's own.
func NewFromDefinitions(fsys fs.FS, id string, options ...wizard.Option) (*Controller, error) {
	store, err := definition.LoadFS(fsys)
	if err != nil {
		return nil, err
	}
	w, ok := store.Wizard(id)
	if !ok {
		return nil, fmt.Errorf("formwizard: wizard %q not found", id)
	}
	ctrl := wizard.New(append(w.Options(), options...)...)
	if err := w.Mount(ctrl); err != nil {
		ctrl.Close()
		return nil, err
	}
	return ctrl, nil
}

// StepsFromOpenAPI derives steps from the request body of an OpenAPI
// operation.
func StepsFromOpenAPI(ctx context.Context, raw []byte, operationID string, options ...openapi.Option) ([]Input, error) {
	return openapi.Steps(ctx, raw, operationID, options...)
}

// KeyframesCSS renders the current transition of snap as CSS.
func KeyframesCSS(snap Snapshot, options ...keyframes.Option) (string, error) {
	renderer, err := keyframes.New(options...)
	if err != nil {
		return "", err
	}
	return renderer.Render(snap)
}
