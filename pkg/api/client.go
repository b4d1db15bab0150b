// Package api wraps the studio backend REST API. Every call issues exactly one
// request: no retries, caching or response validation.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-studio/components/studio"
)

// ErrNoToken is returned by token sources that have nothing to attach.
var ErrNoToken = errors.New("api: no auth token")

// TokenSource yields the bearer token for a request.
type TokenSource func(ctx context.Context) (string, error)

// StaticToken always returns token.
func StaticToken(token string) TokenSource {
	return func(context.Context) (string, error) {
		if token == "" {
			return "", ErrNoToken
		}
		return token, nil
	}
}

type tokenKey struct{}

// WithToken forwards a viewer's token through ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// ContextToken reads the token stored by WithToken.
func ContextToken(ctx context.Context) (string, error) {
	token, _ := ctx.Value(tokenKey{}).(string)
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// FirstToken tries each source in order and returns the first token found.
func FirstToken(sources ...TokenSource) TokenSource {
	return func(ctx context.Context) (string, error) {
		for _, source := range sources {
			if source == nil {
				continue
			}
			if token, err := source(ctx); err == nil && token != "" {
				return token, nil
			}
		}
		return "", ErrNoToken
	}
}

// Observer receives the outcome of every call.
type Observer interface {
	ObserveAPICall(method, path string, status int, elapsed time.Duration)
}

// Config configures the HTTP client.
type Config struct {
	BaseURL    string
	Token      TokenSource
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *zap.Logger
	Observer   Observer
}

// Error is a non-2xx backend response.
type Error struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s %s: remote error %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Is maps 404 onto studio.ErrNotFound and 400/422 onto studio.ErrValidation.
func (e *Error) Is(target error) bool {
	switch target {
	case studio.ErrNotFound:
		return e.Status == http.StatusNotFound
	case studio.ErrValidation:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
	}
	return false
}

// Client talks to the backend.
type Client struct {
	baseURL  string
	token    TokenSource
	client   *http.Client
	log      *zap.Logger
	observer Observer

	Admin    *AdminService
	Blogger  *AuthorService
	Writer   *AuthorService
	Vocalist *VocalistService
}

// NewClient validates cfg and builds the role services.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("api: base url is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("api: invalid base url: %w", err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	token := cfg.Token
	if token == nil {
		token = ContextToken
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		baseURL:  base,
		token:    token,
		client:   httpClient,
		log:      log,
		observer: cfg.Observer,
	}
	c.Admin = &AdminService{c: c}
	c.Blogger = &AuthorService{profileService: profileService{c: c, prefix: "/bloggers"}, collection: "/bloggers/blogs"}
	c.Writer = &AuthorService{profileService: profileService{c: c, prefix: "/writers"}, collection: "/writers/posts"}
	c.Vocalist = &VocalistService{profileService: profileService{c: c, prefix: "/vocalists"}}
	return c, nil
}

// Sources exposes the role services to studio pages.
func (c *Client) Sources() studio.Sources {
	return studio.Sources{
		Admin:    c.Admin,
		Blogger:  c.Blogger,
		Writer:   c.Writer,
		Vocalist: c.Vocalist,
	}
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, target any) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, "", target)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload any, target any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("api: encode payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	return c.do(ctx, method, path, body, "application/json", target)
}

func (c *Client) upload(ctx context.Context, path string, file studio.Upload, target any) error {
	if file.Body == nil {
		return fmt.Errorf("%w: upload body is required", studio.ErrValidation)
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.Filename))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return fmt.Errorf("api: build upload: %w", err)
	}
	if _, err := io.Copy(part, file.Body); err != nil {
		return fmt.Errorf("api: read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("api: build upload: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, &buf, mw.FormDataContentType(), target)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, target any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" && body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	token, err := c.token(ctx)
	switch {
	case err == nil:
		req.Header.Set("Authorization", "Bearer "+token)
	case !errors.Is(err, ErrNoToken):
		return fmt.Errorf("api: resolve token: %w", err)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	elapsed := time.Since(start)
	route := req.URL.Path
	if err != nil {
		c.observe(method, route, 0, elapsed)
		c.log.Warn("api request failed", zap.String("method", method), zap.String("path", route), zap.Error(err))
		return fmt.Errorf("api: %s %s: %w", method, route, err)
	}
	defer resp.Body.Close()
	c.observe(method, route, resp.StatusCode, elapsed)
	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("path", route),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &Error{Method: method, Path: route, Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if target == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("api: decode response: %w", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, target); err != nil {
		return fmt.Errorf("api: decode data: %w", err)
	}
	return nil
}

func (c *Client) observe(method, path string, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveAPICall(method, path, status, elapsed)
	}
}
