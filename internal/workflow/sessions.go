package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JenosKanjiro/social-support-agent/workflow"
)

// OutcomeRecorder persists the applicant and application records once a
// pipeline invocation terminates. Fire-and-forget from the core's
// perspective: failures are logged, never surfaced into workflow state.
type OutcomeRecorder interface {
	Record(ctx context.Context, state workflow.State) error
}

// Sessions exposes the two entry points into the engine: pipeline-mode
// application submission and conversational chat. Both funnel through the
// same engine and the same thread lineage.
type Sessions struct {
	engine   *Engine
	recorder OutcomeRecorder
	logger   *slog.Logger
}

// NewSessions creates the session entry points. recorder may be nil when
// no relational persistence is wired.
func NewSessions(engine *Engine, recorder OutcomeRecorder, logger *slog.Logger) *Sessions {
	return &Sessions{
		engine:   engine,
		recorder: recorder,
		logger:   logger.With("system", "sessions"),
	}
}

// SubmitApplication starts or extends a thread in pipeline mode. It injects
// the pipeline-start sentinel as the newest message, sets the submitted
// fields and document locators, and blocks until the workflow terminates.
func (s *Sessions) SubmitApplication(
	ctx context.Context,
	threadID string,
	data workflow.ApplicationData,
	locators map[workflow.DocumentKind]string,
	cachedPath string,
) (*workflow.State, error) {
	seed := func(latest *workflow.State) workflow.State {
		state := workflow.State{}
		if latest != nil {
			state = latest.Clone()
		}
		return workflow.Merge(state, workflow.Patch{
			Messages: []workflow.Message{{
				Speaker: workflow.SpeakerUser,
				Content: workflow.StartApplicationToken,
			}},
			ApplicationData:      &data,
			ExtractionPaths:      locators,
			CachedExtractionPath: workflow.StringPtr(cachedPath),
		})
	}

	final, err := s.engine.Invoke(ctx, threadID, seed)
	if err != nil {
		return nil, fmt.Errorf("submit application: %w", err)
	}

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, *final); err != nil {
			s.logger.ErrorContext(
				ctx, "outcome record failed",
				"thread_id", threadID,
				"applicant_id", data.ApplicantID,
				"error", err,
			)
		}
	}

	return final, nil
}

// SendChatMessage starts or extends a thread in conversational mode. The
// raw utterance becomes the newest message; the supervisor's chat
// short-circuit routes it. Returns the final state and the system reply.
func (s *Sessions) SendChatMessage(ctx context.Context, threadID, text string) (*workflow.State, string, error) {
	seed := func(latest *workflow.State) workflow.State {
		state := workflow.State{}
		if latest != nil {
			state = latest.Clone()
		}
		return workflow.Merge(state, workflow.Patch{
			Messages: []workflow.Message{{
				Speaker: workflow.SpeakerUser,
				Content: text,
			}},
		})
	}

	final, err := s.engine.Invoke(ctx, threadID, seed)
	if err != nil {
		return nil, "", fmt.Errorf("send chat message: %w", err)
	}

	return final, chatReply(final.ChatLog), nil
}

// History returns the thread's checkpoint lineage, oldest first.
func (s *Sessions) History(ctx context.Context, threadID string) ([]workflow.State, error) {
	states, err := s.engine.checkpoints.History(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("%w: history for %s: %w", workflow.ErrStoreUnavailable, threadID, err)
	}
	return states, nil
}

// chatReply extracts the newest system line from the conversation log.
func chatReply(log []string) string {
	for i := len(log) - 1; i >= 0; i-- {
		if after, ok := strings.CutPrefix(log[i], "System: "); ok {
			return after
		}
	}
	return ""
}
