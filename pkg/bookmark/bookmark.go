// Package bookmark posts a submitted wizard to the article bookmarking
// endpoint. SubmitHandler adapts a Client to the wizard submit capability.
package bookmark

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-logr/logr"

	"github.com/goliatone/go-formwizard/pkg/controls"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// AddPath is the endpoint path a bookmark is posted to.
const AddPath = "/articles/add"

// ErrBaseURLRequired is returned when a client has no endpoint configured.
var ErrBaseURLRequired = errors.New("bookmark: base URL is required")

// Bookmark is the saved article payload.
type Bookmark struct {
	ID     string   `json:"_id"`
	Title  string   `json:"title"`
	Topics []string `json:"topics"`
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("bookmark: unexpected status %d: %s", e.Code, e.Body)
	}
	return fmt.Sprintf("bookmark: unexpected status %d", e.Code)
}

// StatusCode returns the HTTP status of the failed response.
func (e *StatusError) StatusCode() int {
	return e.Code
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger logr.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client saves bookmarks to one endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logr.Logger
}

// NewClient creates a client posting to baseURL + AddPath.
func NewClient(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: http.DefaultClient,
		logger:     logr.Discard(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Save posts b as JSON.
func (c *Client) Save(ctx context.Context, b Bookmark) error {
	if c.baseURL == "" {
		return ErrBaseURLRequired
	}
	if b.Topics == nil {
		b.Topics = []string{}
	}
	body, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("bookmark: encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+AddPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("bookmark: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bookmark: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	c.logger.V(1).Info("bookmark saved", "id", b.ID, "topics", len(b.Topics))
	return nil
}

// Fields names the wizard steps a bookmark is built from.
type Fields struct {
	ID     string
	Title  string
	Topics string
}

// DefaultFields matches the bundled bookmark wizard.
func DefaultFields() Fields {
	return Fields{ID: "url", Title: "title", Topics: "topics"}
}

// FromValues builds a bookmark from collected wizard values. Topics are the
// sorted option values whose checkbox is ticked.
func FromValues(values map[string]any, fields Fields) Bookmark {
	return Bookmark{
		ID:     text(values[fields.ID]),
		Title:  text(values[fields.Title]),
		Topics: controls.Selected(values[fields.Topics]),
	}
}

// SubmitHandler adapts client to the wizard submit capability.
func SubmitHandler(client *Client, fields Fields) wizard.SubmitHandler {
	return wizard.SubmitFunc(func(ctx context.Context, values map[string]any) error {
		return client.Save(ctx, FromValues(values, fields))
	})
}

func text(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(typed)
	default:
		return strings.TrimSpace(fmt.Sprint(typed))
	}
}
