package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

// OCRClient extracts plain text from an uploaded document so the parser
// can work on it. documentRef is whatever handle the upload pipeline
// issued, typically a storage path.
type OCRClient interface {
	ExtractText(ctx context.Context, documentRef string) (string, error)
}

// HTTPOCRClient talks to an external OCR service over HTTP.
type HTTPOCRClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPOCRClient reads OCR_SERVICE_URL; a caller should skip OCR
// entirely when the variable is unset.
func NewHTTPOCRClient() *HTTPOCRClient {
	return &HTTPOCRClient{
		baseURL: os.Getenv("OCR_SERVICE_URL"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *HTTPOCRClient) ExtractText(ctx context.Context, documentRef string) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("OCR_SERVICE_URL is not configured")
	}

	endpoint := fmt.Sprintf("%s/extract?document=%s", c.baseURL, url.QueryEscape(documentRef))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("building OCR request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling OCR service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OCR service returned status %d", resp.StatusCode)
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding OCR response: %w", err)
	}
	return body.Text, nil
}
