package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"
)

// TextClient calls the text extraction service that converts PDF and
// spreadsheet documents into plain text.
type TextClient struct {
	url    string
	client *http.Client
}

// NewTextClient creates a client for the extraction service at url.
func NewTextClient(url string, timeout time.Duration) *TextClient {
	return &TextClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type textResponse struct {
	Text string `json:"text"`
}

// ExtractText uploads the document bytes and returns the extracted text.
func (c *TextClient) ExtractText(ctx context.Context, name string, data []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("build extraction request: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("build extraction request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("build extraction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/extract", &body)
	if err != nil {
		return "", fmt.Errorf("create extraction request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("extraction service returned status %d", resp.StatusCode)
	}

	var parsed textResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode extraction response: %w", err)
	}

	return parsed.Text, nil
}
