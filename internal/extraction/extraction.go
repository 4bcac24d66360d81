// Package extraction turns stored applicant documents into per-document
// text extracts. Image documents go through the vision model; PDF and
// spreadsheet documents go through the text extraction service.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/encoding"
	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"golang.org/x/sync/errgroup"

	"github.com/JenosKanjiro/social-support-agent/pkg/storage"
	"github.com/JenosKanjiro/social-support-agent/workflow"
)

var (
	ErrExtractFailed = errors.New("extraction failed")
	ErrNoCachedData  = errors.New("no cached extraction data")
)

// Indexer makes extracted text findable by the chatbot's context lookup.
type Indexer interface {
	Add(ctx context.Context, text string) error
}

// Service extracts text from the five applicant document kinds.
type Service struct {
	storage  storage.System
	agent    agent.Agent
	textract *TextClient
	indexer  Indexer
	logger   *slog.Logger
}

// NewService creates an extraction service over blob storage, a vision
// agent, and the text extraction client. indexer may be nil when no
// vector store is wired.
func NewService(
	store storage.System,
	agentCfg *gaconfig.AgentConfig,
	textract *TextClient,
	indexer Indexer,
	logger *slog.Logger,
) (*Service, error) {
	a, err := agent.New(agentCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: create agent: %w", ErrExtractFailed, err)
	}

	return &Service{
		storage:  store,
		agent:    a,
		textract: textract,
		indexer:  indexer,
		logger:   logger.With("system", "extraction"),
	}, nil
}

// Extract processes every document concurrently and assembles the
// combined extract set. It fails if any document cannot be processed.
func (s *Service) Extract(ctx context.Context, paths map[workflow.DocumentKind]string) (workflow.ExtractedData, error) {
	var (
		mu       sync.Mutex
		extracts = make(map[workflow.DocumentKind]string, len(paths))
	)

	g, gctx := errgroup.WithContext(ctx)

	for _, kind := range workflow.DocumentKinds() {
		key, ok := paths[kind]
		if !ok || key == "" {
			return workflow.ExtractedData{}, fmt.Errorf("%w: no document for %s", ErrExtractFailed, kind)
		}

		g.Go(func() error {
			text, err := s.extractOne(gctx, kind, key)
			if err != nil {
				return fmt.Errorf("%s: %w", kind, err)
			}

			s.index(gctx, kind, text)

			mu.Lock()
			extracts[kind] = text
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return workflow.ExtractedData{}, fmt.Errorf("%w: %w", ErrExtractFailed, err)
	}

	s.logger.InfoContext(ctx, "documents extracted", "count", len(extracts))

	return workflow.ExtractedData{
		EmiratesID:        extracts[workflow.DocEmiratesID],
		BankStatement:     extracts[workflow.DocBankStatement],
		CreditReport:      extracts[workflow.DocCreditReport],
		Resume:            extracts[workflow.DocResume],
		AssetsLiabilities: extracts[workflow.DocAssetsLiabilities],
	}, nil
}

// LoadCached reads a previously stored extract set from blob storage.
func (s *Service) LoadCached(ctx context.Context, key string) (workflow.ExtractedData, error) {
	reader, err := s.storage.Download(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return workflow.ExtractedData{}, fmt.Errorf("%w: %s", ErrNoCachedData, key)
		}
		return workflow.ExtractedData{}, fmt.Errorf("load cached extraction %s: %w", key, err)
	}
	defer reader.Close()

	var extracted workflow.ExtractedData
	if err := json.NewDecoder(reader).Decode(&extracted); err != nil {
		return workflow.ExtractedData{}, fmt.Errorf("decode cached extraction %s: %w", key, err)
	}

	s.logger.InfoContext(ctx, "cached extraction loaded", "key", key)
	return extracted, nil
}

// StoreCache writes an extract set to blob storage under the given key so
// later submissions can skip document processing.
func (s *Service) StoreCache(ctx context.Context, key string, extracted workflow.ExtractedData) error {
	data, err := json.Marshal(extracted)
	if err != nil {
		return fmt.Errorf("encode extraction cache: %w", err)
	}

	if err := s.storage.Upload(ctx, key, bytes.NewReader(data), "application/json"); err != nil {
		return fmt.Errorf("store extraction cache %s: %w", key, err)
	}

	return nil
}

// index is best-effort: a failed vector store write never fails extraction.
func (s *Service) index(ctx context.Context, kind workflow.DocumentKind, text string) {
	if s.indexer == nil || text == "" {
		return
	}
	if err := s.indexer.Add(ctx, text); err != nil {
		s.logger.WarnContext(ctx, "extract indexing failed", "kind", kind, "error", err)
	}
}

func (s *Service) extractOne(ctx context.Context, kind workflow.DocumentKind, key string) (string, error) {
	reader, err := s.storage.Download(ctx, key)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", key, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}

	switch kind {
	case workflow.DocEmiratesID, workflow.DocCreditReport:
		return s.extractImage(ctx, kind, data)
	default:
		return s.textract.ExtractText(ctx, key, data)
	}
}

func (s *Service) extractImage(ctx context.Context, kind workflow.DocumentKind, data []byte) (string, error) {
	dataURI, err := encoding.EncodeImageDataURI(data, document.PNG)
	if err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	resp, err := s.agent.Vision(ctx, visionPrompt(kind), []string{dataURI})
	if err != nil {
		return "", fmt.Errorf("vision call: %w", err)
	}

	return resp.Content(), nil
}
