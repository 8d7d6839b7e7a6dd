// Package api talks to the remote /todos collection.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/idilsaglam/todo/internal/model"
)

const collectionPath = "todos"

// Client is a thin JSON client over the collection resource.
// It never retries; each call maps to exactly one HTTP request.
type Client struct {
	base  *url.URL
	http  *http.Client
	token string
	log   zerolog.Logger
}

type Option func(*Client)

// WithToken sends "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse base url: %q is not absolute", baseURL)
	}
	c := &Client{
		base: u,
		http: &http.Client{},
		log:  zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

type itemBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// List fetches the whole collection.
func (c *Client) List(ctx context.Context) ([]model.Item, error) {
	resp, err := c.do(ctx, "list", http.MethodGet, c.base.JoinPath(collectionPath), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	items := []model.Item{}
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("list: decode: %w", err)
	}
	return items, nil
}

// Create posts a new item. The returned Item is whatever the backend echoed
// back; it is the zero Item when the body is empty or not an item.
func (c *Client) Create(ctx context.Context, title, description string) (model.Item, error) {
	resp, err := c.do(ctx, "create", http.MethodPost, c.base.JoinPath(collectionPath), itemBody{title, description})
	if err != nil {
		return model.Item{}, err
	}
	defer resp.Body.Close()

	var created model.Item
	b, err := io.ReadAll(resp.Body)
	if err != nil || len(bytes.TrimSpace(b)) == 0 {
		return model.Item{}, nil
	}
	if err := json.Unmarshal(b, &created); err != nil {
		c.log.Debug().Err(err).Msg("create: response body is not an item")
		return model.Item{}, nil
	}
	return created, nil
}

func (c *Client) Update(ctx context.Context, id, title, description string) error {
	u, err := c.itemURL("update", id)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, "update", http.MethodPut, u, itemBody{title, description})
	if err != nil {
		return err
	}
	return drain(resp)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	u, err := c.itemURL("delete", id)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, "delete", http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	return drain(resp)
}

// itemURL is /todos/{id} with id escaped as a single segment. Ids that
// would step out of the collection are refused before anything is sent.
func (c *Client) itemURL(op, id string) (*url.URL, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return nil, fmt.Errorf("%s: %w: bad item id %q", op, model.ErrValidation, id)
	}
	return c.base.JoinPath(collectionPath, url.PathEscape(id)), nil
}

// do sends one request and turns transport failures and non-2xx statuses
// into the model error taxonomy. On success the caller owns resp.Body.
func (c *Client) do(ctx context.Context, op, method string, u *url.URL, body any) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: marshal: %w", op, err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return nil, fmt.Errorf("%s: new request: %w", op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("op", op).Str("request_id", reqID).Msg("request failed")
		return nil, fmt.Errorf("%s: %w: %w", op, model.ErrNetwork, err)
	}
	c.log.Debug().
		Str("op", op).
		Str("method", method).
		Str("url", u.String()).
		Str("request_id", reqID).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("request done")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = drain(resp)
		return nil, &model.RequestError{Op: op, Status: resp.StatusCode}
	}
	return resp, nil
}

func drain(resp *http.Response) error {
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}
