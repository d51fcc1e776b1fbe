// Package postgrest reads portfolio tables through a PostgREST endpoint, the
// REST surface exposed by Supabase projects.
package postgrest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/govdash/internal/adapters/gateway"
	"github.com/okian/govdash/internal/domain/model"
)

const (
	restPath         = "/rest/v1/"
	maxErrorBodySize = 4 << 10
	defaultTimeout   = 15 * time.Second
)

// Sentinel kinds for PostgREST errors.
var (
	ErrStatus = errors.New("unexpected response status")
	ErrDecode = errors.New("decode response")
)

// Client implements gateway.Reader over HTTP.
type Client struct {
	base       *url.URL
	credential string
	client     *http.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// New creates a Client for the project at endpoint, authenticating with
// credential. Neither value appears in returned errors.
func New(endpoint, credential string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(endpoint), "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.New("postgrest endpoint must be an http(s) URL")
	}
	if strings.TrimSpace(credential) == "" {
		return nil, errors.New("postgrest credential is required")
	}
	c := &Client{
		base:       u,
		credential: credential,
		client:     &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Projects(ctx context.Context, q gateway.Query) ([]model.Project, error) {
	return fetch[model.Project](ctx, c, model.KindProject, q)
}

func (c *Client) Deliverables(ctx context.Context, q gateway.Query) ([]model.Deliverable, error) {
	rows, err := fetch[deliverableRow](ctx, c, model.KindDeliverable, q)
	if err != nil {
		return nil, err
	}
	out := make([]model.Deliverable, len(rows))
	for i, r := range rows {
		d, err := r.toModel()
		if err != nil {
			return nil, gateway.Fail(model.KindDeliverable, fmt.Errorf("%w: %w", ErrDecode, err))
		}
		out[i] = d
	}
	return out, nil
}

func (c *Client) KPIs(ctx context.Context, q gateway.Query) ([]model.KPI, error) {
	return fetch[model.KPI](ctx, c, model.KindKPI, q)
}

func (c *Client) Tools(ctx context.Context, q gateway.Query) ([]model.Tool, error) {
	return fetch[model.Tool](ctx, c, model.KindTool, q)
}

func (c *Client) MethodologySteps(ctx context.Context, q gateway.Query) ([]model.MethodologyStep, error) {
	return fetch[model.MethodologyStep](ctx, c, model.KindMethodologyStep, q)
}

// requestURL builds GET /rest/v1/{table}?select=*&order={field}.asc&limit={n}.
func (c *Client) requestURL(kind model.Kind, q gateway.Query) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + restPath + kind.Table()
	v := url.Values{}
	v.Set("select", "*")
	if q.OrderBy != "" {
		v.Set("order", q.OrderBy+".asc")
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	u.RawQuery = v.Encode()
	return u.String()
}

func fetch[T any](ctx context.Context, c *Client, kind model.Kind, q gateway.Query) ([]T, error) {
	if err := gateway.Check(kind, q); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(kind, q), http.NoBody)
	if err != nil {
		return nil, gateway.Fail(kind, errors.New("build request"))
	}
	req.Header.Set("apikey", c.credential)
	req.Header.Set("Authorization", "Bearer "+c.credential)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, gateway.Fail(kind, redact(err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, gateway.Fail(kind, statusError(resp))
	}

	var rows []T
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, gateway.Fail(kind, fmt.Errorf("%w: %w", ErrDecode, err))
	}
	return gateway.NonNil(rows), nil
}

// transportError hides the dialled address that net errors carry in their
// text while keeping the cause reachable through errors.Is.
type transportError struct {
	msg string
	err error
}

func (e *transportError) Error() string { return e.msg }
func (e *transportError) Unwrap() error { return e.err }

// redact drops the request URL and addresses from transport errors.
func redact(err error) error {
	cause := err
	var ue *url.Error
	if errors.As(err, &ue) {
		cause = ue.Err
	}
	switch {
	case errors.Is(cause, context.Canceled), errors.Is(cause, context.DeadlineExceeded):
		return &transportError{msg: "request: " + cause.Error(), err: cause}
	case ue != nil && ue.Timeout():
		return &transportError{msg: "request timed out", err: cause}
	default:
		return &transportError{msg: "backend unreachable", err: cause}
	}
}

// apiError is the error body PostgREST returns.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	var ae apiError
	if err := json.Unmarshal(body, &ae); err == nil && ae.Message != "" {
		if ae.Code != "" {
			return fmt.Errorf("%w %d: %s (%s)", ErrStatus, resp.StatusCode, ae.Message, ae.Code)
		}
		return fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, ae.Message)
	}
	return fmt.Errorf("%w %d", ErrStatus, resp.StatusCode)
}
