package filemaker

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Error kinds callers can match with errors.Is.
var (
	ErrAuthentication = errors.New("filemaker authentication failed")
	ErrBadResponse    = errors.New("filemaker response malformed")
)

// Record is one row returned by a layout query.
type Record struct {
	RecordID  string    `json:"recordId"`
	FieldData FieldData `json:"fieldData"`
}

// FieldData mirrors the Orders layout of the Shopworks database.
type FieldData struct {
	OrderNumber      string `json:"OrderNumber"`
	Quantity         int    `json:"Quantity"`
	DecorationMethod string `json:"DecorationMethod"`
	DueDate          string `json:"DueDate"`
	Status           string `json:"Status"`
	CustomerName     string `json:"CustomerName,omitempty"`
}

type findRequest struct {
	Query []map[string]string `json:"query"`
	Limit string              `json:"limit,omitempty"`
}

type findResponse struct {
	Response struct {
		Data []Record `json:"data"`
	} `json:"response"`
}

type sessionResponse struct {
	Response struct {
		Token string `json:"token"`
	} `json:"response"`
}

// Client talks to the FileMaker Data API. Sessions are expensive to open and
// expire server-side after 15 minutes, so tokens are held in a TokenCache and
// reused across calls.
type Client struct {
	BaseURL    string
	Database   string
	Username   string
	Password   string
	HTTPClient *http.Client

	sessions *TokenCache
}

// sessionTTL stays below the server's 15-minute validity so a cached token is
// never handed out right before it expires mid-use.
const sessionTTL = 14 * time.Minute

func NewClient(baseURL, database, username, password string) *Client {
	c := &Client{
		BaseURL:  baseURL,
		Database: database,
		Username: username,
		Password: password,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	c.sessions = NewTokenCache(c.login, c.logout, sessionTTL)
	return c
}

// Configured reports whether credential material was supplied.
func (c *Client) Configured() bool {
	return c.BaseURL != "" && c.Username != ""
}

// Token returns a valid session token, opening a new session only when the
// cached one is missing or stale.
func (c *Client) Token(ctx context.Context) (string, error) {
	return c.sessions.Token(ctx)
}

// Release invalidates the server-side session and clears the local cache.
// Safe to call when no session is open.
func (c *Client) Release(ctx context.Context) error {
	return c.sessions.Release(ctx)
}

// login performs the Basic-auth session handshake.
func (c *Client) login(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/fmi/data/v1/databases/%s/sessions", c.BaseURL, c.Database)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBufferString("{}"))
	if err != nil {
		return "", fmt.Errorf("failed to create session request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	auth := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.Password))
	req.Header.Set("Authorization", "Basic "+auth)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to open session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s", ErrAuthentication, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read session response: %w", err)
	}

	var session sessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if session.Response.Token == "" {
		return "", fmt.Errorf("%w: session response contained no token", ErrBadResponse)
	}

	return session.Response.Token, nil
}

// logout closes the server-side session identified by token.
func (c *Client) logout(ctx context.Context, token string) error {
	url := fmt.Sprintf("%s/fmi/data/v1/databases/%s/sessions/%s", c.BaseURL, c.Database, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create logout request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	defer resp.Body.Close()

	return nil
}

// FindOrders runs a _find on the given layout for records due on or after
// dueAfter. The API expects the limit as a string.
func (c *Client) FindOrders(ctx context.Context, layout string, dueAfter time.Time, limit int) ([]Record, error) {
	token, err := c.sessions.Token(ctx)
	if err != nil {
		return nil, err
	}

	find := findRequest{
		Query: []map[string]string{
			{"DueDate": ">=" + dueAfter.Format("2006-01-02")},
		},
		Limit: fmt.Sprintf("%d", limit),
	}

	jsonData, err := json.Marshal(find)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal find request: %w", err)
	}

	url := fmt.Sprintf("%s/fmi/data/v1/databases/%s/layouts/%s/_find", c.BaseURL, c.Database, layout)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create find request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send find request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// The server dropped the session early; make the next call re-login.
		c.sessions.Invalidate()
		return nil, fmt.Errorf("%w: session rejected: %s", ErrAuthentication, resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("filemaker api error: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read find response: %w", err)
	}

	var result findResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	return result.Response.Data, nil
}
