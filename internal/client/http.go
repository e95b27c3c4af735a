package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/alfredjeanlab/marketpro/internal/contact"
	"github.com/alfredjeanlab/marketpro/internal/model"
	"github.com/alfredjeanlab/marketpro/internal/presence"
)

// ErrInvalidCredentials is returned by Login when the server rejects the
// username or password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// HTTPClient implements SiteClient using the site's HTTP/JSON API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

var _ SiteClient = (*HTTPClient)(nil)

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:3000"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// BaseURL returns the server address the client targets.
func (c *HTTPClient) BaseURL() string { return c.baseURL }

// Token returns the bearer token currently sent with requests.
func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the bearer token.
func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Document ---

func (c *HTTPClient) GetDocument(ctx context.Context) (json.RawMessage, error) {
	var doc json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/api/data", nil, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *HTTPClient) SaveDocument(ctx context.Context, doc *model.SiteDocument) (json.RawMessage, error) {
	var resp SaveResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/data", doc, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// --- Session ---

// Login exchanges credentials for a token and, on success, uses that token
// for subsequent requests.
func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	var resp LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/login", LoginRequest{Username: username, Password: password}, &resp)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if !resp.Success || resp.Token == "" {
		return "", ErrInvalidCredentials
	}
	c.SetToken(resp.Token)
	return resp.Token, nil
}

// --- Assistant ---

func (c *HTTPClient) Chat(ctx context.Context, message string) (string, error) {
	var resp ChatResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/chat", ChatRequest{Message: message}, &resp); err != nil {
		return "", err
	}
	return resp.Reply, nil
}

func (c *HTTPClient) Suggest(ctx context.Context, section string) ([]string, error) {
	var resp SuggestResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/suggest", SuggestRequest{Section: section}, &resp); err != nil {
		return nil, err
	}
	return resp.Suggestions, nil
}

// --- Contact ---

// SubmitContact posts the form. Server-side validation failures come back
// as contact.FieldErrors.
func (c *HTTPClient) SubmitContact(ctx context.Context, form contact.Form) (string, error) {
	var resp ContactResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/contact", form, &resp)
	var apiErr *APIError
	if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
		return "", contact.FieldErrors(apiErr.Fields)
	}
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

// --- Visitors ---

// Visitors lists visitors seen within window. Requires a session token.
func (c *HTTPClient) Visitors(ctx context.Context, window time.Duration) ([]presence.Entry, error) {
	var resp struct {
		Visitors []presence.Entry `json:"visitors"`
	}
	path := "/api/visitors?window=" + url.QueryEscape(window.String())
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Visitors, nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		// Error bodies use "error", except login which answers with "message".
		var errResp struct {
			Error   string            `json:"error"`
			Message string            `json:"message"`
			Fields  map[string]string `json:"fields"`
		}
		if json.Unmarshal(respBody, &errResp) == nil {
			msg := errResp.Error
			if msg == "" {
				msg = errResp.Message
			}
			if msg != "" {
				return &APIError{StatusCode: resp.StatusCode, Message: msg, Fields: errResp.Fields}
			}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
