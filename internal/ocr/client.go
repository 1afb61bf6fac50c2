// Package ocr is the client for the tesseract OCR sidecar service. The
// sidecar owns pixels-to-text (image decoding, PDF rasterization,
// tesseract itself); this service only ever consumes the returned text.
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client represents a client for the OCR sidecar service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds configuration for the OCR client
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a new OCR sidecar client
func NewClient(config *Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	return &Client{
		baseURL: config.BaseURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

type ocrRequest struct {
	ContentBase64 string `json:"content_base64"`
	ContentType   string `json:"content_type"`
}

type ocrResponse struct {
	Text  string `json:"text"`
	Pages int    `json:"pages"`
}

// ExtractText sends a document (image or PDF) to the sidecar and returns
// the recognized text. Multi-page documents come back as pages joined
// with line breaks.
func (c *Client) ExtractText(ctx context.Context, document []byte, contentType string) (string, error) {
	payload := ocrRequest{
		ContentBase64: base64.StdEncoding.EncodeToString(document),
		ContentType:   contentType,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON payload: %w", err)
	}

	url := fmt.Sprintf("%s/ocr", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OCR service error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var out ocrResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return out.Text, nil
}

// HealthCheck checks if the OCR sidecar is healthy
func (c *Client) HealthCheck() error {
	url := fmt.Sprintf("%s/health", c.baseURL)
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("health check failed (status %d): %s", resp.StatusCode, string(body))
	}

	return nil
}
