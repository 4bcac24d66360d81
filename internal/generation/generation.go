// Package generation produces language model text and structured outputs
// for the workflow: recommendations, conversational replies, validation
// reports, and routing decisions.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

var (
	ErrUnknownTemplate = errors.New("unknown template")
	ErrGenerateFailed  = errors.New("generation failed")
)

// Service wraps a configured agent behind the workflow's generation,
// validation, and routing contracts.
type Service struct {
	agent  agent.Agent
	logger *slog.Logger
}

// NewService creates a Service from the given agent configuration.
func NewService(cfg *gaconfig.AgentConfig, logger *slog.Logger) (*Service, error) {
	a, err := agent.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: create agent: %w", ErrGenerateFailed, err)
	}

	return &Service{
		agent:  a,
		logger: logger.With("system", "generation"),
	}, nil
}

// Generate renders the identified template with vars and returns the
// model's reply with any reasoning preamble stripped.
func (s *Service) Generate(ctx context.Context, templateID string, vars map[string]string) (string, error) {
	template, err := lookupTemplate(templateID)
	if err != nil {
		return "", err
	}

	text, err := s.chat(ctx, render(template, vars))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrGenerateFailed, templateID, err)
	}

	s.logger.InfoContext(
		ctx, "text generated",
		"template", templateID,
		"length", len(text),
	)

	return text, nil
}

func (s *Service) chat(ctx context.Context, prompt string) (string, error) {
	resp, err := s.agent.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("chat call: %w", err)
	}
	return stripReasoning(resp.Content()), nil
}

// stripReasoning drops everything up to and including a closing
// reasoning tag emitted by thinking models.
func stripReasoning(content string) string {
	if _, after, found := strings.Cut(content, "</think>"); found {
		return strings.TrimSpace(after)
	}
	return strings.TrimSpace(content)
}
