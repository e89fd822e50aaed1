// Package client talks to the todo HTTP API. A Client holds the session
// token obtained by Login and attaches it to every task call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrNotLoggedIn is returned by task calls made without a token.
var ErrNotLoggedIn = errors.New("client: not logged in")

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Code    int    `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%d): %s", e.Status, e.Code, e.Message)
}

// Todo mirrors the server's task representation.
type Todo struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Update lists the fields to change; nil fields are not sent.
type Update struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// New returns a client for baseURL. A nil httpClient uses a 10s timeout client.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Token returns the current session token, or "" when logged out.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// ExpiresAt reports when the current token stops being accepted.
func (c *Client) ExpiresAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expiresAt
}

// Logout forgets the session token. Tokens cannot be revoked server-side;
// they simply expire.
func (c *Client) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expiresAt = time.Time{}
}

func (c *Client) Register(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	return c.do(ctx, http.MethodPost, "/register", false, body, nil)
}

// Login authenticates and keeps the returned token for later calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var out struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", false, body, &out); err != nil {
		return err
	}

	c.mu.Lock()
	c.token = out.Token
	c.expiresAt = out.ExpiresAt
	c.mu.Unlock()
	return nil
}

func (c *Client) List(ctx context.Context) ([]Todo, error) {
	var out []Todo
	if err := c.do(ctx, http.MethodGet, "/todos", true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, title string) (Todo, error) {
	var out Todo
	err := c.do(ctx, http.MethodPost, "/todos", true, map[string]string{"title": title}, &out)
	return out, err
}

func (c *Client) Update(ctx context.Context, id uint, u Update) (Todo, error) {
	var out Todo
	err := c.do(ctx, http.MethodPut, todoPath(id), true, u, &out)
	return out, err
}

func (c *Client) Delete(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, todoPath(id), true, nil, nil)
}

func todoPath(id uint) string {
	return "/todos/" + strconv.FormatUint(uint64(id), 10)
}

func (c *Client) do(ctx context.Context, method, path string, authed bool, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token := c.Token()
		if token == "" {
			return ErrNotLoggedIn
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		if resp.StatusCode == http.StatusUnauthorized && authed {
			// expired or rejected; force a fresh Login
			c.Logout()
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
