// Package workflow implements the orchestration core: the checkpointed
// engine, the supervisor routing state machine, the five processing steps,
// and the session entry points that drive them.
package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/JenosKanjiro/social-support-agent/workflow"
)

// ExtractionService extracts structured text from submitted documents.
type ExtractionService interface {
	// Extract runs document extraction against all submitted locators.
	Extract(ctx context.Context, paths map[workflow.DocumentKind]string) (workflow.ExtractedData, error)
	// LoadCached loads a previously extracted result from the given locator.
	// An empty result with nil error means the cache was not usable.
	LoadCached(ctx context.Context, locator string) (workflow.ExtractedData, error)
	// StoreCache saves an extracted result under the given locator.
	StoreCache(ctx context.Context, locator string, extracts workflow.ExtractedData) error
}

// ValidationService cross-checks application fields against document extracts.
type ValidationService interface {
	Validate(ctx context.Context, data workflow.ApplicationData, extracts workflow.ExtractedData) (workflow.ValidationReport, error)
}

// DecisionService predicts the eligibility outcome for an application.
type DecisionService interface {
	PredictEligibility(ctx context.Context, data workflow.ApplicationData) (workflow.Decision, error)
}

// GenerationService produces natural-language text from a named prompt
// template and its variables.
type GenerationService interface {
	Generate(ctx context.Context, templateID string, vars map[string]string) (string, error)
}

// RetrievalService returns semantic context passages for a query.
// An empty result is valid.
type RetrievalService interface {
	RetrieveContext(ctx context.Context, query string) ([]string, error)
}

// RoutingService makes the supervisor's constrained dynamic routing decision.
// next is restricted to a registered step name or the FINISH synonym.
type RoutingService interface {
	Decide(ctx context.Context, instruction string, messages []workflow.Message) (next string, reason string, err error)
}

// Runtime bundles the collaborators and settings the steps require.
// It is assembled by composition code from infrastructure and domain systems.
type Runtime struct {
	Extraction ExtractionService
	Validation ValidationService
	Decisions  DecisionService
	Generation GenerationService
	Retrieval  RetrievalService
	Routing    RoutingService
	Logger     *slog.Logger

	// ValidationThreshold is the pass/fail cut on the validation report's
	// overall score, in [0,1].
	ValidationThreshold float64

	// CallTimeout bounds each collaborator call. Zero means no bound;
	// an expired deadline is a collaborator failure, not an engine crash.
	CallTimeout time.Duration
}

// callCtx derives the bounded context used for collaborator calls.
func (rt *Runtime) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if rt.CallTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, rt.CallTimeout)
}
