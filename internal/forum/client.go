package forum

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 10 * time.Second

// ClientConfig holds connection settings for the forum board.
type ClientConfig struct {
	BaseURL   string
	Username  string
	Password  string
	UserAgent string
	Timeout   time.Duration
}

// Client is an HTTP session against the forum. When credentials are
// configured, Login posts them once so list pages include logged-in
// content; the session cookie jar carries the result.
type Client struct {
	http     *resty.Client
	baseURL  string
	username string
	password string
}

// NewClient creates a new forum client.
func NewClient(cfg *ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "Collectarr/1.0"
	}

	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", userAgent)

	return &Client{
		http:     client,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		username: cfg.Username,
		password: cfg.Password,
	}
}

// BaseURL returns the configured board base URL without trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login performs a best-effort board login when credentials are
// configured. Without credentials it is a no-op. Callers treat the
// returned error as non-fatal; anonymous crawling still works.
func (c *Client) Login(ctx context.Context) error {
	if c.username == "" || c.password == "" {
		return nil
	}
	loginURL := c.baseURL + "/ucp.php?mode=login"
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"username": c.username,
			"password": c.password,
			"login":    "Login",
		}).
		Post(loginURL)
	if err != nil {
		return fmt.Errorf("forum login failed: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return fmt.Errorf("forum login failed: status %d", resp.StatusCode())
	}
	return nil
}

// FetchPage retrieves one page of raw HTML.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (string, error) {
	resp, err := c.http.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	if resp.StatusCode() >= 400 {
		return "", fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode())
	}
	return resp.String(), nil
}

// TestConnection checks reachability and credentials of the board.
// A missing base URL fails fast with a descriptive message.
func (c *Client) TestConnection(ctx context.Context) (bool, string) {
	if c.baseURL == "" {
		return false, "forum URL not configured"
	}
	if err := c.Login(ctx); err != nil {
		// Tolerated: the GET below reports the authoritative status.
		_ = err
	}
	resp, err := c.http.R().SetContext(ctx).Get(c.baseURL)
	if err != nil {
		return false, fmt.Sprintf("forum error: %v", err)
	}
	code := resp.StatusCode()
	if code == 401 || code == 403 {
		return false, "forum: invalid credentials"
	}
	return code < 400, fmt.Sprintf("forum status: %d", code)
}
