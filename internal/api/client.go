// Package api speaks to the dashboard's remote collaborator.
//
// Every successful response wraps its payload in { "data": ... }; failures
// carry a JSON error body { "error": "..." }. The client does no retries and
// sets no timeouts of its own; cancellation and deadlines come from the
// caller's context.
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

	"cadence-cli/internal/model"
)

type Client struct {
	BaseURL string
	Token   string

	// HTTPClient defaults to http.DefaultClient when nil.
	HTTPClient *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"), Token: strings.TrimSpace(token)}
}

// RemoteError is a non-2xx response from the collaborator.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("remote error: status %d", e.Status)
	}
	return fmt.Sprintf("remote error: status %d: %s", e.Status, e.Message)
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// do issues one request and decodes the {data} envelope into out (out may be
// nil for writes whose response body the caller ignores).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		_ = json.Unmarshal(raw, &env)
		return &RemoteError{Status: resp.StatusCode, Message: env.Error}
	}
	if out == nil {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s data: %w", method, path, err)
	}
	return nil
}

// --- Reads (refresh.Source) ---

func (c *Client) Summary(ctx context.Context) (model.Summary, error) {
	var out model.Summary
	err := c.do(ctx, http.MethodGet, "/api/summary", nil, nil, &out)
	return out, err
}

func (c *Client) Initiatives(ctx context.Context) ([]model.Initiative, error) {
	var out []model.Initiative
	err := c.do(ctx, http.MethodGet, "/api/initiatives", nil, nil, &out)
	return out, err
}

func (c *Client) OpenDecisions(ctx context.Context) ([]model.Decision, error) {
	q := url.Values{}
	q.Set("status", "open")
	var out []model.Decision
	err := c.do(ctx, http.MethodGet, "/api/decisions", q, nil, &out)
	return out, err
}

// KeyDates fetches the key-date templates overlapping [from, to] (ISO dates,
// inclusive). Recurring templates anchored outside the range are included by
// the server; the client expands them.
func (c *Client) KeyDates(ctx context.Context, from, to string) ([]model.KeyDate, error) {
	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)
	var out []model.KeyDate
	err := c.do(ctx, http.MethodGet, "/api/key-dates", q, nil, &out)
	return out, err
}

// ActionItems fetches every action item in one bulk call; grouping by
// initiative happens client-side (store.GroupActions).
func (c *Client) ActionItems(ctx context.Context) ([]model.ActionItem, error) {
	var out []model.ActionItem
	err := c.do(ctx, http.MethodGet, "/api/action-items", nil, nil, &out)
	return out, err
}

// LatestSync returns the most recent sync session, or nil when none exists.
func (c *Client) LatestSync(ctx context.Context) (*model.SyncSession, error) {
	q := url.Values{}
	q.Set("limit", "1")
	var out []model.SyncSession
	if err := c.do(ctx, http.MethodGet, "/api/syncs", q, nil, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

// --- Writes (mutate.Remote) ---

func (c *Client) ToggleActionItem(ctx context.Context, id string) error {
	body := map[string]any{"action": "toggle", "id": id}
	return c.do(ctx, http.MethodPatch, "/api/action-items", nil, body, nil)
}

func (c *Client) UpdateActionItem(ctx context.Context, id string, fields map[string]any) error {
	body := map[string]any{"action": "update", "id": id}
	for k, v := range fields {
		body[k] = v
	}
	return c.do(ctx, http.MethodPatch, "/api/action-items", nil, body, nil)
}

func (c *Client) CreateActionItem(ctx context.Context, initiativeID, title, deadline string) (model.ActionItem, error) {
	body := map[string]any{"initiative_id": initiativeID, "title": title}
	if strings.TrimSpace(deadline) != "" {
		body["deadline"] = deadline
	}
	var out model.ActionItem
	err := c.do(ctx, http.MethodPost, "/api/action-items", nil, body, &out)
	return out, err
}

func (c *Client) DeleteActionItem(ctx context.Context, id string) error {
	body := map[string]any{"id": id}
	return c.do(ctx, http.MethodDelete, "/api/action-items", nil, body, nil)
}

func (c *Client) DecideDecision(ctx context.Context, id, text string) error {
	body := map[string]any{"action": "decide", "id": id, "decision_text": text}
	return c.do(ctx, http.MethodPatch, "/api/decisions", nil, body, nil)
}

func (c *Client) DeferDecision(ctx context.Context, id string) error {
	body := map[string]any{"action": "defer", "id": id}
	return c.do(ctx, http.MethodPatch, "/api/decisions", nil, body, nil)
}

func (c *Client) SetInitiativePriority(ctx context.Context, id string, p model.Priority) error {
	body := map[string]any{"action": "update", "priority": string(p)}
	return c.do(ctx, http.MethodPatch, "/api/initiatives/"+url.PathEscape(id), nil, body, nil)
}

func (c *Client) RecordSyncSession(ctx context.Context, draft model.SyncSessionDraft) (model.SyncSession, error) {
	var out model.SyncSession
	err := c.do(ctx, http.MethodPost, "/api/syncs", nil, draft, &out)
	return out, err
}

func (c *Client) UpdateNextSync(ctx context.Context, id, date, focus string) error {
	body := map[string]any{"next_sync_date": date, "next_sync_focus": focus}
	return c.do(ctx, http.MethodPatch, "/api/syncs/"+url.PathEscape(id), nil, body, nil)
}
