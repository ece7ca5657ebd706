// Package api is the HTTP client for the back-office collection API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"tourdesk/internal/model"

	"github.com/m-mizutani/goerr/v2"
)

// CredentialProvider supplies the bearer token at request time.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

type StaticToken string

func (s StaticToken) Token(context.Context) (string, error) { return string(s), nil }

type Client struct {
	BaseURL     string
	HTTPClient  *http.Client
	Credentials CredentialProvider
	Logger      *slog.Logger
}

func New(baseURL string, creds CredentialProvider) *Client {
	return &Client{BaseURL: baseURL, Credentials: creds}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (c *Client) endpoint(path string) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return "", goerr.New("base URL is not configured")
	}
	if _, err := url.Parse(base); err != nil {
		return "", goerr.Wrap(err, "invalid base URL", goerr.V("base_url", base))
	}
	return base + "/" + strings.TrimLeft(path, "/"), nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body any, out any) error {
	u, err := c.endpoint(path)
	if err != nil {
		return err
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return goerr.Wrap(err, "failed to encode request body", goerr.V("op", op))
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return goerr.Wrap(err, "failed to build request", goerr.V("method", method), goerr.V("url", u))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.Credentials != nil {
		tok, err := c.Credentials.Token(ctx)
		if err != nil {
			return goerr.Wrap(err, "failed to read credentials", goerr.V("op", op))
		}
		if tok = strings.TrimSpace(tok); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	log := c.logger()
	log.Debug("api request", "op", op, "method", method, "url", u, "auth", req.Header.Get("Authorization") != "")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return goerr.Wrap(err, "request failed", goerr.V("method", method), goerr.V("url", u))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return goerr.Wrap(err, "failed to read response", goerr.V("method", method), goerr.V("url", u))
	}
	log.Debug("api response", "op", op, "status", resp.StatusCode, "bytes", len(raw))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(op, resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return goerr.Wrap(err, "failed to decode response", goerr.V("op", op), goerr.V("url", u))
	}
	return nil
}

func (c *Client) List(ctx context.Context, resource string) ([]model.Record, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "list", http.MethodGet, resource, nil, &raw); err != nil {
		return nil, err
	}
	recs, err := decodeList(raw)
	if err != nil {
		return nil, goerr.Wrap(err, "unexpected list payload", goerr.V("resource", resource))
	}
	return recs, nil
}

func (c *Client) Get(ctx context.Context, resource, id string) (model.Record, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "get", http.MethodGet, resource+"/"+url.PathEscape(id), nil, &raw); err != nil {
		return nil, err
	}
	return decodeRecord(raw)
}

func (c *Client) Create(ctx context.Context, resource string, payload model.Record) (model.Record, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "create", http.MethodPost, resource, payload, &raw); err != nil {
		return nil, err
	}
	return decodeRecord(raw)
}

func (c *Client) Update(ctx context.Context, resource, id string, payload model.Record) (model.Record, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "update", http.MethodPut, resource+"/"+url.PathEscape(id), payload, &raw); err != nil {
		return nil, err
	}
	rec, err := decodeRecord(raw)
	if err != nil {
		return nil, err
	}
	if rec.ID() == "" {
		rec[model.IDKey] = id
	}
	return rec, nil
}

func (c *Client) Delete(ctx context.Context, resource, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, resource+"/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Destinations(ctx context.Context) ([]model.Destination, error) {
	recs, err := c.List(ctx, "/admin/destinations")
	if err != nil {
		return nil, err
	}
	out := make([]model.Destination, 0, len(recs))
	for _, r := range recs {
		out = append(out, model.DestinationFromRecord(r))
	}
	return out, nil
}

func (c *Client) HotelsByDestination(ctx context.Context, destinationID string) ([]model.Hotel, error) {
	if destinationID == "" {
		return nil, nil
	}
	recs, err := c.List(ctx, "/admin/hotels/destination/"+url.PathEscape(destinationID))
	if err != nil {
		return nil, err
	}
	out := make([]model.Hotel, 0, len(recs))
	for _, r := range recs {
		out = append(out, model.HotelFromRecord(r))
	}
	return out, nil
}

// decodeList accepts a bare array or an object wrapping it in data/items.
func decodeList(raw json.RawMessage) ([]model.Record, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []model.Record{}, nil
	}
	if trimmed[0] == '[' {
		var recs []model.Record
		if err := json.Unmarshal(trimmed, &recs); err != nil {
			return nil, err
		}
		return recs, nil
	}
	var env struct {
		Data  []model.Record `json:"data"`
		Items []model.Record `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, err
	}
	if env.Data != nil {
		return env.Data, nil
	}
	if env.Items != nil {
		return env.Items, nil
	}
	return []model.Record{}, nil
}

func decodeRecord(raw json.RawMessage) (model.Record, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return model.Record{}, nil
	}
	var rec model.Record
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return nil, goerr.Wrap(err, "unexpected record payload")
	}
	if inner, ok := rec["data"].(map[string]any); ok && rec.ID() == "" {
		return model.Record(inner), nil
	}
	return rec, nil
}
