package metabohunter

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"metabohunter/internal/config"
	"metabohunter/internal/pkg/text"
)

const errorBodyLimit = 4096

// Client posts the two MetaboHunter forms over HTTP.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	userAgent  string
	maxBody    int64
}

// NewClient constructs a client from configuration. A zero timeout leaves
// requests bounded only by the caller's context.
func NewClient(cfg config.ServiceConfig) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse service.base_url failed: %w", err)
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true // #nosec G402
		}
	}
	maxBody := cfg.MaxResponseBytes
	if maxBody <= 0 {
		maxBody = 8 << 20
	}
	return &Client{
		baseURL: parsed,
		httpClient: &http.Client{
			Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
			Transport: transport,
		},
		userAgent: strings.TrimSpace(cfg.UserAgent),
		maxBody:   maxBody,
	}, nil
}

// SetHTTPClient sets the HTTP client for testing.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Endpoint returns the absolute URL of a service script.
func (c *Client) Endpoint(path string) string {
	return c.baseURL.ResolveReference(&url.URL{Path: path}).String()
}

// Submit posts the peak list form and returns the HTML page.
func (c *Client) Submit(ctx context.Context, form url.Values) (string, error) {
	body := []byte(form.Encode())
	return c.post(ctx, SubmitPath, "application/x-www-form-urlencoded", body)
}

// DownloadMatchedPeaks posts the ranking table back and returns the plain-text
// peak assignments.
func (c *Client) DownloadMatchedPeaks(ctx context.Context, form MatchedPeaksForm) (string, error) {
	body, contentType, err := form.Encode()
	if err != nil {
		return "", fmt.Errorf("encode matched peaks form: %w", err)
	}
	return c.post(ctx, MatchedPeaksPath, contentType, body)
}

// post returns errors from the HTTP client unchanged.
func (c *Client) post(ctx context.Context, path, contentType string, body []byte) (string, error) {
	if c == nil || c.httpClient == nil {
		return "", fmt.Errorf("metabohunter client not initialized")
	}
	endpoint := c.Endpoint(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return "", &StatusError{
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       text.Snippet(string(data), 200),
		}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > c.maxBody {
		return "", fmt.Errorf("metabohunter %s response exceeds %d bytes", path, c.maxBody)
	}
	return string(data), nil
}
