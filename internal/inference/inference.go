// Package inference predicts social support eligibility. The trained
// classifier runs behind an HTTP model service; the reason for each
// predicted label is produced by the language model.
package inference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JenosKanjiro/social-support-agent/workflow"
)

var ErrPredictFailed = errors.New("eligibility prediction failed")

// ReasonGenerator explains a predicted label in applicant-facing terms.
type ReasonGenerator interface {
	EligibilityReason(ctx context.Context, data workflow.ApplicationData, label string) (string, error)
}

// Service combines the model client with reason generation.
type Service struct {
	model   *ModelClient
	reasons ReasonGenerator
	logger  *slog.Logger
}

// NewService creates an inference service.
func NewService(model *ModelClient, reasons ReasonGenerator, logger *slog.Logger) *Service {
	return &Service{
		model:   model,
		reasons: reasons,
		logger:  logger.With("system", "inference"),
	}
}

// PredictEligibility classifies the application and explains the outcome.
func (s *Service) PredictEligibility(ctx context.Context, data workflow.ApplicationData) (workflow.Decision, error) {
	label, err := s.model.Predict(ctx, data)
	if err != nil {
		return workflow.Decision{}, fmt.Errorf("%w: %w", ErrPredictFailed, err)
	}

	reason, err := s.reasons.EligibilityReason(ctx, data, label)
	if err != nil {
		return workflow.Decision{}, fmt.Errorf("%w: %w", ErrPredictFailed, err)
	}

	s.logger.InfoContext(ctx, "eligibility predicted", "label", label)

	return workflow.Decision{Label: label, Reason: reason}, nil
}
