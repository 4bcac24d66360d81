package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/JenosKanjiro/social-support-agent/workflow"
)

// DefaultMaxSteps bounds one invocation's step loop. The fixed edge set
// terminates well under this; the bound guards a misrouted dynamic decision.
const DefaultMaxSteps = 16

// SeedFunc builds the invocation's starting state from the thread's latest
// checkpoint. latest is nil for a brand-new thread. The function runs while
// the thread lock is held, so the read-then-extend is race-free.
type SeedFunc func(latest *workflow.State) workflow.State

// Engine drives workflow invocations: it resolves the current state under
// a per-thread lock, executes steps starting at the supervisor, merges each
// patch, persists a checkpoint after every step, and follows transitions
// until terminal.
type Engine struct {
	steps       map[workflow.StepName]workflow.Step
	checkpoints workflow.CheckpointStore
	logger      *slog.Logger
	maxSteps    int
	locks       threadLocks
}

// NewEngine creates an engine over the given steps and checkpoint store.
// Construction fails if the supervisor step is missing, since every
// invocation enters there.
func NewEngine(
	steps []workflow.Step,
	checkpoints workflow.CheckpointStore,
	logger *slog.Logger,
	maxSteps int,
) (*Engine, error) {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	registered := make(map[workflow.StepName]workflow.Step, len(steps))
	for _, s := range steps {
		registered[s.Name()] = s
	}

	if _, ok := registered[workflow.StepSupervisor]; !ok {
		return nil, fmt.Errorf("%w: %s", workflow.ErrUnknownStep, workflow.StepSupervisor)
	}

	return &Engine{
		steps:       registered,
		checkpoints: checkpoints,
		logger:      logger.With("system", "workflow"),
		maxSteps:    maxSteps,
		locks:       threadLocks{locks: make(map[string]*sync.Mutex)},
	}, nil
}

// Invoke runs one workflow invocation against a thread. The thread lock is
// held from the initial checkpoint read to the final checkpoint write, so
// concurrent invocations against the same thread serialize and each sees
// the other's result.
func (e *Engine) Invoke(ctx context.Context, threadID string, seed SeedFunc) (*workflow.State, error) {
	unlock := e.locks.acquire(threadID)
	defer unlock()

	latest, err := e.checkpoints.Latest(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("%w: read latest for %s: %w", workflow.ErrStoreUnavailable, threadID, err)
	}

	state := seed(latest)
	state.ThreadID = threadID

	current := workflow.StepSupervisor
	for i := 0; ; i++ {
		if i >= e.maxSteps {
			return nil, fmt.Errorf("%w: %d steps on thread %s", workflow.ErrStepLimit, i, threadID)
		}

		step, ok := e.steps[current]
		if !ok {
			return nil, fmt.Errorf("%w: %s", workflow.ErrUnknownStep, current)
		}

		patch, transition, err := step.Execute(ctx, state.Clone())
		if err != nil {
			e.logger.ErrorContext(
				ctx, "step failed",
				"thread_id", threadID,
				"step", current,
				"error", err,
			)
			patch, transition = failureCommand(current)
		}

		state = workflow.Merge(state, patch)

		if err := e.checkpoints.Append(ctx, threadID, state); err != nil {
			return nil, fmt.Errorf("%w: append for %s: %w", workflow.ErrStoreUnavailable, threadID, err)
		}

		if transition.Terminal {
			e.logger.InfoContext(
				ctx, "workflow terminal",
				"thread_id", threadID,
				"steps", i+1,
			)
			return &state, nil
		}

		e.logger.InfoContext(
			ctx, "workflow transition",
			"thread_id", threadID,
			"from", current,
			"to", transition.Next,
		)
		current = transition.Next
	}
}

// failureCommand converts an unhandled step error into the step's sentinel
// failure patch and routing edge. This is the single mechanical conversion
// point; steps with richer failure semantics handle collaborator errors
// locally and never return them.
func failureCommand(name workflow.StepName) (workflow.Patch, workflow.Transition) {
	switch name {
	case workflow.StepExtractor:
		return workflow.Patch{
			Messages:      []workflow.Message{{Speaker: string(name), Content: workflow.MsgExtractionFailed}},
			ExtractedData: &workflow.ExtractedData{},
		}, workflow.Goto(workflow.StepSupervisor)
	case workflow.StepValidator:
		return workflow.Patch{
			Messages:         []workflow.Message{{Speaker: string(name), Content: workflow.MsgValidationFailed}},
			ValidationResult: &workflow.ValidationReport{},
		}, workflow.Goto(workflow.StepSupervisor)
	case workflow.StepDecisionMaker:
		return workflow.Patch{
			Messages: []workflow.Message{{Speaker: string(name), Content: workflow.MsgDecisionFailed}},
			Decision: &workflow.Decision{},
		}, workflow.Goto(workflow.StepSupervisor)
	case workflow.StepRecommender:
		return workflow.Patch{
			Messages:        []workflow.Message{{Speaker: string(name), Content: workflow.MsgRecommenderFailed}},
			Recommendations: workflow.StringPtr(""),
		}, workflow.Goto(workflow.StepSupervisor)
	case workflow.StepChatbot:
		return workflow.Patch{
			Messages: []workflow.Message{{Speaker: string(name), Content: workflow.MsgChatReplyFailed}},
		}, workflow.Goto(workflow.StepSupervisor)
	default:
		// The supervisor has no upstream router to report to; end the
		// invocation with an explicit routing-failure record.
		return workflow.Patch{
			Messages: []workflow.Message{{Speaker: string(workflow.StepSupervisor), Content: workflow.MsgRoutingFailed}},
		}, workflow.Finish()
	}
}

// threadLocks provides one mutex per thread identifier. Entries are never
// evicted, so the map holds one mutex per distinct thread for the life of
// the engine.
type threadLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (t *threadLocks) acquire(threadID string) func() {
	t.mu.Lock()
	lock, ok := t.locks[threadID]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[threadID] = lock
	}
	t.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
