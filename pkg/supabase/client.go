// Package supabase is a thin PostgREST and GoTrue client for the tables and
// auth endpoints the API uses.
package supabase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
)

// Client represents a Supabase client
type Client struct {
	URL        string
	ServiceKey string
	HTTPClient *http.Client
}

// NewClient creates a new Supabase client
func NewClient(baseURL, serviceKey string) *Client {
	return &Client{
		URL:        baseURL,
		ServiceKey: serviceKey,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// User represents a Supabase user
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// APIError is returned for any 4xx/5xx response
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase error (status %d): %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a PostgREST 404 or a single-row miss
// (406 with Accept: application/vnd.pgrst.object+json)
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusNotFound || apiErr.StatusCode == http.StatusNotAcceptable)
}

// Filter is a PostgREST query string. Keys may repeat, e.g. two "timestamp"
// filters for a range.
type Filter [][2]string

// Add appends key=value and returns the filter for chaining
func (f Filter) Add(key, value string) Filter {
	return append(f, [2]string{key, value})
}

func (f Filter) encode() string {
	q := url.Values{}
	for _, kv := range f {
		q.Add(kv[0], kv[1])
	}
	return q.Encode()
}

// Query executes a GET on a table. userToken is optional; the service key is
// used when empty.
func (c *Client) Query(ctx context.Context, table string, filter Filter, userToken string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, c.tableURL(table, filter), nil, userToken, nil)
}

// Insert inserts one row or a slice of rows and returns the representation
func (c *Client) Insert(ctx context.Context, table string, data interface{}, userToken string) ([]byte, error) {
	return c.do(ctx, http.MethodPost, c.tableURL(table, nil), data, userToken, map[string]string{
		"Prefer": "return=representation",
	})
}

// Upsert inserts or merges rows. onConflict names the unique columns,
// e.g. "id" or "user_id,date".
func (c *Client) Upsert(ctx context.Context, table string, data interface{}, onConflict, userToken string) ([]byte, error) {
	filter := Filter{}.Add("on_conflict", onConflict)
	return c.do(ctx, http.MethodPost, c.tableURL(table, filter), data, userToken, map[string]string{
		"Prefer": "return=representation,resolution=merge-duplicates",
	})
}

// Update patches rows matching filter
func (c *Client) Update(ctx context.Context, table string, filter Filter, data interface{}, userToken string) ([]byte, error) {
	return c.do(ctx, http.MethodPatch, c.tableURL(table, filter), data, userToken, map[string]string{
		"Prefer": "return=representation",
	})
}

// Delete removes rows matching filter
func (c *Client) Delete(ctx context.Context, table string, filter Filter, userToken string) error {
	_, err := c.do(ctx, http.MethodDelete, c.tableURL(table, filter), nil, userToken, nil)
	return err
}

// VerifyToken verifies a JWT token with Supabase
func (c *Client) VerifyToken(ctx context.Context, token string) (*User, error) {
	body, err := c.do(ctx, http.MethodGet, c.URL+"/auth/v1/user", nil, token, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("token verification returned no user")
	}
	return &user, nil
}

func (c *Client) tableURL(table string, filter Filter) string {
	u := fmt.Sprintf("%s/rest/v1/%s", c.URL, table)
	if len(filter) > 0 {
		u += "?" + filter.encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, method, target string, data interface{}, userToken string, headers map[string]string) ([]byte, error) {
	var reqBody io.Reader
	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, err
	}

	req.Header.Set("apikey", c.ServiceKey)
	bearer := c.ServiceKey
	if userToken != "" {
		bearer = userToken
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
