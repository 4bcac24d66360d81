package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	engine "github.com/JenosKanjiro/social-support-agent/internal/workflow"
	"github.com/JenosKanjiro/social-support-agent/workflow"
)

// scriptedStep stands in for a real step with a fixed outcome.
type scriptedStep struct {
	name       workflow.StepName
	patch      workflow.Patch
	transition workflow.Transition
	err        error
	calls      int
}

func (s *scriptedStep) Name() workflow.StepName { return s.name }

func (s *scriptedStep) Execute(context.Context, workflow.State) (workflow.Patch, workflow.Transition, error) {
	s.calls++
	return s.patch, s.transition, s.err
}

// failStore fails every checkpoint operation.
type failStore struct{}

func (failStore) Append(context.Context, string, workflow.State) error {
	return fmt.Errorf("connection refused")
}

func (failStore) Latest(context.Context, string) (*workflow.State, error) {
	return nil, fmt.Errorf("connection refused")
}

func (failStore) History(context.Context, string) ([]workflow.State, error) {
	return nil, fmt.Errorf("connection refused")
}

func pipelineSeed() engine.SeedFunc {
	return func(latest *workflow.State) workflow.State {
		state := workflow.State{}
		if latest != nil {
			state = latest.Clone()
		}
		data := sampleApplication()
		return workflow.Merge(state, workflow.Patch{
			Messages: []workflow.Message{{
				Speaker: workflow.SpeakerUser,
				Content: workflow.StartApplicationToken,
			}},
			ApplicationData: &data,
			ExtractionPaths: submissionDocuments(),
		})
	}
}

func TestNewEngineRequiresSupervisor(t *testing.T) {
	rt, _ := newTestRuntime()

	_, err := engine.NewEngine(
		[]workflow.Step{engine.NewExtractor(rt), engine.NewValidator(rt)},
		workflow.NewMemoryStore(),
		discardLogger(),
		0,
	)
	if !errors.Is(err, workflow.ErrUnknownStep) {
		t.Errorf("expected ErrUnknownStep for missing supervisor, got %v", err)
	}
}

func TestInvokePipelineTerminates(t *testing.T) {
	ctx := context.Background()
	rt, f := newTestRuntime()
	store := workflow.NewMemoryStore()
	e := newTestEngine(t, rt, store)

	final, err := e.Invoke(ctx, "t1", pipelineSeed())
	if err != nil {
		t.Fatalf("Invoke error: %v", err)
	}

	last, _ := final.LastMessage()
	if last.Speaker != string(workflow.StepSupervisor) {
		t.Errorf("expected supervisor to close the thread, got %+v", last)
	}
	if last.Content != "Decision and Recommendation generation complete." {
		t.Errorf("unexpected termination reason: %q", last.Content)
	}
	if final.Decision.Label != "Declined" {
		t.Errorf("decision not merged: %+v", final.Decision)
	}
	if final.Recommendations != "generated text" {
		t.Errorf("recommendations not merged: %q", final.Recommendations)
	}
	if f.extraction.extractCalls != 1 || f.validation.calls != 1 || f.decisions.calls != 1 {
		t.Errorf("unexpected collaborator calls: extract=%d validate=%d decide=%d",
			f.extraction.extractCalls, f.validation.calls, f.decisions.calls)
	}

	// supervisor, extractor, validator, decision maker, recommender,
	// supervisor: one checkpoint per executed step.
	history, err := store.History(ctx, "t1")
	if err != nil {
		t.Fatalf("History error: %v", err)
	}
	if len(history) != 6 {
		t.Errorf("expected 6 checkpoints, got %d", len(history))
	}
}

func TestInvokeStepErrorConversion(t *testing.T) {
	ctx := context.Background()

	t.Run("failing extractor terminates with sentinel", func(t *testing.T) {
		rt, _ := newTestRuntime()
		failing := &scriptedStep{
			name: workflow.StepExtractor,
			err:  fmt.Errorf("blob store down"),
		}

		store := workflow.NewMemoryStore()
		e, err := engine.NewEngine(
			[]workflow.Step{engine.NewSupervisor(rt), failing},
			store, discardLogger(), 0,
		)
		if err != nil {
			t.Fatalf("NewEngine error: %v", err)
		}

		final, err := e.Invoke(ctx, "t1", pipelineSeed())
		if err != nil {
			t.Fatalf("Invoke error: %v", err)
		}

		last, _ := final.LastMessage()
		if last.Content != "Information Extraction component failed." {
			t.Errorf("expected extraction failure terminal, got %q", last.Content)
		}
		if !final.ExtractedData.Empty() {
			t.Errorf("expected cleared extracts, got %+v", final.ExtractedData)
		}

		// The failure sentinel must be recorded before the terminal reason.
		messages := final.Messages
		if messages[len(messages)-2].Content != workflow.MsgExtractionFailed {
			t.Errorf("expected failure sentinel in sequence, got %+v", messages)
		}
	})

	t.Run("failing supervisor ends with routing failure", func(t *testing.T) {
		rt, f := newTestRuntime()
		f.routing.fn = func(string, []workflow.Message) (string, string, error) {
			return "", "", fmt.Errorf("model unavailable")
		}

		e := newTestEngine(t, rt, workflow.NewMemoryStore())
		final, err := e.Invoke(ctx, "t1", pipelineSeed())
		if err != nil {
			t.Fatalf("Invoke error: %v", err)
		}

		last, _ := final.LastMessage()
		if last.Content != workflow.MsgRoutingFailed {
			t.Errorf("expected routing failure record, got %q", last.Content)
		}
	})
}

func TestInvokeStepLimit(t *testing.T) {
	ctx := context.Background()
	rt, f := newTestRuntime()
	f.routing.fn = func(string, []workflow.Message) (string, string, error) {
		return "extractor", "Extract again.", nil
	}

	// The scripted extractor bounces back without a sentinel, so the
	// supervisor keeps re-routing to it.
	looping := &scriptedStep{
		name: workflow.StepExtractor,
		patch: workflow.Patch{
			Messages: []workflow.Message{{Speaker: string(workflow.StepExtractor), Content: "still working"}},
		},
		transition: workflow.Goto(workflow.StepSupervisor),
	}

	e, err := engine.NewEngine(
		[]workflow.Step{engine.NewSupervisor(rt), looping},
		workflow.NewMemoryStore(), discardLogger(), 5,
	)
	if err != nil {
		t.Fatalf("NewEngine error: %v", err)
	}

	_, err = e.Invoke(ctx, "t1", pipelineSeed())
	if !errors.Is(err, workflow.ErrStepLimit) {
		t.Errorf("expected ErrStepLimit, got %v", err)
	}
}

func TestInvokeUnknownTransitionTarget(t *testing.T) {
	ctx := context.Background()
	rt, f := newTestRuntime()
	f.routing.fn = func(string, []workflow.Message) (string, string, error) {
		return "chatbot", "Talk to the user.", nil
	}

	// chatbot is a valid step name but is not registered on this engine.
	e, err := engine.NewEngine(
		[]workflow.Step{engine.NewSupervisor(rt)},
		workflow.NewMemoryStore(), discardLogger(), 0,
	)
	if err != nil {
		t.Fatalf("NewEngine error: %v", err)
	}

	_, err = e.Invoke(ctx, "t1", pipelineSeed())
	if !errors.Is(err, workflow.ErrUnknownStep) {
		t.Errorf("expected ErrUnknownStep, got %v", err)
	}
}

func TestInvokeStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	rt, _ := newTestRuntime()

	e, err := engine.NewEngine(allSteps(rt), failStore{}, discardLogger(), 0)
	if err != nil {
		t.Fatalf("NewEngine error: %v", err)
	}

	_, err = e.Invoke(ctx, "t1", pipelineSeed())
	if !errors.Is(err, workflow.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestInvokeSerializesPerThread(t *testing.T) {
	ctx := context.Background()
	rt, f := newTestRuntime()
	f.routing.fn = func(string, []workflow.Message) (string, string, error) {
		return "FINISH", "Nothing to do.", nil
	}

	store := workflow.NewMemoryStore()
	e := newTestEngine(t, rt, store)

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
		})
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.Invoke(ctx, "t1", seed); err != nil {
				t.Errorf("Invoke error: %v", err)
			}
		}()
	}
	wg.Wait()

	// Each invocation reads the previous lineage and appends one checkpoint.
	history, err := store.History(ctx, "t1")
	if err != nil {
		t.Fatalf("History error: %v", err)
	}
	if len(history) != 8 {
		t.Fatalf("expected 8 checkpoints, got %d", len(history))
	}

	final := history[len(history)-1]
	// 8 user tokens and 8 supervisor reasons, interleaved in pairs.
	if len(final.Messages) != 16 {
		t.Errorf("expected 16 accumulated messages, got %d", len(final.Messages))
	}
}
