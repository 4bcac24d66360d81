// Package retrieval talks to the vector store service backing the
// chatbot's context lookup. Document extracts are indexed as they are
// produced; chat turns query for the most relevant passages.
package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

var ErrRetrieveFailed = errors.New("context retrieval failed")

// Service is an HTTP client for the vector store service.
type Service struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewService creates a retrieval client for the vector store at url.
func NewService(url string, timeout time.Duration, logger *slog.Logger) *Service {
	return &Service{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger.With("system", "retrieval"),
	}
}

// RetrieveContext returns passages relevant to the query, best match first.
func (s *Service) RetrieveContext(ctx context.Context, query string) ([]string, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal query: %w", ErrRetrieveFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrRetrieveFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrieveFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: vector store returned status %d", ErrRetrieveFailed, resp.StatusCode)
	}

	var passages []string
	if err := json.NewDecoder(resp.Body).Decode(&passages); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrRetrieveFailed, err)
	}

	s.logger.InfoContext(ctx, "context retrieved", "passages", len(passages))
	return passages, nil
}

// Add indexes text into the vector store so later queries can find it.
func (s *Service) Add(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url+"/documents", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("index document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("vector store returned status %d", resp.StatusCode)
	}

	return nil
}
