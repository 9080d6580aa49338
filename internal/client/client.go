// Package client implements the AgriGuard API client: login, registration,
// image analysis and scan history against the backend service, with the
// session token injected rather than held in ambient global state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"agriguard/internal/analysis"
)

// Client talks to the AgriGuard backend. All methods are plain request/
// response calls; token reads and writes go through the injected Session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

// New creates a client for the backend at baseURL using the given session.
func New(baseURL string, session *Session) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		session:    session,
	}
}

// TokenResponse is the body of a successful POST /auth/token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Profile is the registration payload for POST /auth/register.
type Profile struct {
	Email        string `json:"email"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	FullName     string `json:"full_name,omitempty"`
	FarmLocation string `json:"farm_location,omitempty"`
}

// Account is the backend's view of a registered user.
type Account struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	FarmLocation string `json:"farm_location"`
	CreatedAt    string `json:"created_at"`
}

// Login exchanges credentials for a token via form-encoded POST /auth/token
// and stores the token in the session. Any non-2xx response fails with an
// AuthError.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build login request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &AuthError{Message: "Login failed"}
	}

	var token TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("parse login response failed: %w", err)
	}
	c.session.Set(token.AccessToken)
	return &token, nil
}

// Register posts a structured profile. On non-2xx the backend detail message
// is surfaced as a ValidationError.
func (c *Client) Register(ctx context.Context, profile Profile) (*Account, error) {
	body, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("marshal profile failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/register",
		bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build register request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ValidationError{Detail: readDetail(resp.Body, "Registration failed")}
	}

	var account Account
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return nil, fmt.Errorf("parse register response failed: %w", err)
	}
	return &account, nil
}

// Analyze sends the raw image as a multipart payload with bearer auth and
// returns the raw classification payload. Without a token it fails with
// ErrUnauthenticated before any network call. A 401 clears the session.
func (c *Client) Analyze(ctx context.Context, image []byte, filename string) (analysis.RawScan, error) {
	if !c.session.Authenticated() {
		return analysis.RawScan{}, ErrUnauthenticated
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return analysis.RawScan{}, fmt.Errorf("build multipart payload failed: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return analysis.RawScan{}, fmt.Errorf("write multipart payload failed: %w", err)
	}
	if err := mw.Close(); err != nil {
		return analysis.RawScan{}, fmt.Errorf("close multipart payload failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", &buf)
	if err != nil {
		return analysis.RawScan{}, fmt.Errorf("build analyze request failed: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.session.Token())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return analysis.RawScan{}, fmt.Errorf("analyze request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusUnauthorized {
			c.session.Clear()
		}
		return analysis.RawScan{}, &AnalysisError{
			StatusCode: resp.StatusCode,
			Detail:     readDetail(resp.Body, "Analysis failed"),
		}
	}

	var raw analysis.RawScan
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return analysis.RawScan{}, fmt.Errorf("parse analyze response failed: %w", err)
	}
	return raw, nil
}

// GetHistory returns the user's past scans in the order the backend sends
// them (reverse-chronological). Requires a token; a 401 clears the session.
func (c *Client) GetHistory(ctx context.Context) ([]analysis.RawScan, error) {
	if !c.session.Authenticated() {
		return nil, ErrUnauthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/scans", nil)
	if err != nil {
		return nil, fmt.Errorf("build history request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.session.Token())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("history request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusUnauthorized {
			c.session.Clear()
		}
		return nil, &HistoryFetchError{
			StatusCode: resp.StatusCode,
			Detail:     readDetail(resp.Body, "Failed to fetch history"),
		}
	}

	var scans []analysis.RawScan
	if err := json.NewDecoder(resp.Body).Decode(&scans); err != nil {
		return nil, fmt.Errorf("parse history response failed: %w", err)
	}
	return scans, nil
}

// Logout clears the stored token. Never fails.
func (c *Client) Logout() {
	c.session.Clear()
}

// IsAuthenticated reports whether a token is currently held.
func (c *Client) IsAuthenticated() bool {
	return c.session.Authenticated()
}

// readDetail extracts the {"detail": ...} message from an error body,
// falling back to the given message when the body is not in that shape.
func readDetail(body io.Reader, fallback string) string {
	raw, err := io.ReadAll(io.LimitReader(body, 64*1024))
	if err != nil {
		return fallback
	}
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return fallback
}
