package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	engine "github.com/JenosKanjiro/social-support-agent/internal/workflow"
	"github.com/JenosKanjiro/social-support-agent/workflow"
)

func TestSupervisorChatShortCircuit(t *testing.T) {
	ctx := context.Background()
	rt, f := newTestRuntime()
	supervisor := engine.NewSupervisor(rt)

	t.Run("user utterance routes to chatbot", func(t *testing.T) {
		state := workflow.State{
			Messages: []workflow.Message{
				{Speaker: workflow.SpeakerUser, Content: "How long does processing take?"},
			},
		}

		patch, transition, err := supervisor.Execute(ctx, state)
		if err != nil {
			t.Fatalf("Execute error: %v", err)
		}
		if transition.Terminal || transition.Next != workflow.StepChatbot {
			t.Fatalf("expected transition to chatbot, got %+v", transition)
		}
		if len(patch.Messages) != 1 || patch.Messages[0].Content != "How long does processing take?" {
			t.Errorf("expected forwarded utterance, got %+v", patch.Messages)
		}
		if patch.Messages[0].Speaker != string(workflow.StepSupervisor) {
			t.Errorf("expected supervisor speaker, got %q", patch.Messages[0].Speaker)
		}
		if f.routing.calls != 0 {
			t.Error("chat short-circuit must not consult dynamic routing")
		}
	})

	t.Run("pipeline start token is not chat", func(t *testing.T) {
		state := workflow.State{
			Messages: []workflow.Message{
				{Speaker: workflow.SpeakerUser, Content: workflow.StartApplicationToken},
			},
		}

		_, transition, err := supervisor.Execute(ctx, state)
		if err != nil {
			t.Fatalf("Execute error: %v", err)
		}
		if transition.Next != workflow.StepExtractor {
			t.Errorf("expected dynamic routing to extractor, got %+v", transition)
		}
		if f.routing.calls != 1 {
			t.Errorf("expected one routing call, got %d", f.routing.calls)
		}
	})
}

func TestSupervisorTerminalTable(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		speaker string
		content string
		reason  string
	}{
		{string(workflow.StepValidator), workflow.MsgValidationUnsuccessful, "Document Validation Failed."},
		{string(workflow.StepValidator), workflow.MsgValidationFailed, "Validation Component Failed."},
		{string(workflow.StepExtractor), workflow.MsgExtractionFailed, "Information Extraction component failed."},
		{string(workflow.StepDecisionMaker), workflow.MsgDecisionFinancialOnly, "Since, only Financial Support was approved, there is no need to generate recommendations for Economic Enablement, and only next steps in the process needs to be communicated to the applicant."},
		{string(workflow.StepDecisionMaker), workflow.MsgDecisionFailed, "Decision Making Component Failed."},
		{string(workflow.StepRecommender), workflow.MsgPipelineComplete, "Decision and Recommendation generation complete."},
		{string(workflow.StepRecommender), workflow.MsgValidationPathComplete, "No Decision needed, Recommendation generation complete."},
		{string(workflow.StepRecommender), workflow.MsgRecommenderFailed, "Recommender Component Failed."},
		{string(workflow.StepChatbot), workflow.MsgChatReplyBuilt, "Chatbot Job finished."},
		{string(workflow.StepChatbot), workflow.MsgChatReplyFailed, "Error generating response for the user."},
	}

	for _, tt := range tests {
		t.Run(tt.speaker+"/"+tt.content, func(t *testing.T) {
			rt, f := newTestRuntime()
			supervisor := engine.NewSupervisor(rt)

			state := workflow.State{
				Messages: []workflow.Message{
					{Speaker: workflow.SpeakerUser, Content: workflow.StartApplicationToken},
					{Speaker: tt.speaker, Content: tt.content},
				},
			}

			patch, transition, err := supervisor.Execute(ctx, state)
			if err != nil {
				t.Fatalf("Execute error: %v", err)
			}
			if !transition.Terminal {
				t.Fatalf("expected terminal transition, got %+v", transition)
			}
			if len(patch.Messages) != 1 || patch.Messages[0].Content != tt.reason {
				t.Errorf("expected reason %q, got %+v", tt.reason, patch.Messages)
			}
			if f.routing.calls != 0 {
				t.Error("known outcome must not consult dynamic routing")
			}
		})
	}
}

func TestSupervisorDynamicRouting(t *testing.T) {
	ctx := context.Background()
	start := workflow.State{
		Messages: []workflow.Message{
			{Speaker: workflow.SpeakerUser, Content: workflow.StartApplicationToken},
		},
	}

	t.Run("finish synonyms terminate", func(t *testing.T) {
		for _, next := range []string{"FINISH", "__end__"} {
			rt, f := newTestRuntime()
			f.routing.fn = func(string, []workflow.Message) (string, string, error) {
				return next, "Nothing left to do.", nil
			}

			patch, transition, err := engine.NewSupervisor(rt).Execute(ctx, start)
			if err != nil {
				t.Fatalf("Execute(%q) error: %v", next, err)
			}
			if !transition.Terminal {
				t.Errorf("expected %q to terminate, got %+v", next, transition)
			}
			if patch.Messages[0].Content != "Nothing left to do." {
				t.Errorf("expected routing reason recorded, got %+v", patch.Messages)
			}
		}
	})

	t.Run("step names are case normalized", func(t *testing.T) {
		rt, f := newTestRuntime()
		f.routing.fn = func(string, []workflow.Message) (string, string, error) {
			return "Extractor", "Start with extraction.", nil
		}

		_, transition, err := engine.NewSupervisor(rt).Execute(ctx, start)
		if err != nil {
			t.Fatalf("Execute error: %v", err)
		}
		if transition.Next != workflow.StepExtractor {
			t.Errorf("expected extractor, got %+v", transition)
		}
	})

	t.Run("unknown step is rejected", func(t *testing.T) {
		rt, f := newTestRuntime()
		f.routing.fn = func(string, []workflow.Message) (string, string, error) {
			return "archiver", "Archive the thread.", nil
		}

		_, _, err := engine.NewSupervisor(rt).Execute(ctx, start)
		if !errors.Is(err, workflow.ErrUnknownStep) {
			t.Errorf("expected ErrUnknownStep, got %v", err)
		}
	})

	t.Run("routing error propagates", func(t *testing.T) {
		rt, f := newTestRuntime()
		boom := fmt.Errorf("model unavailable")
		f.routing.fn = func(string, []workflow.Message) (string, string, error) {
			return "", "", boom
		}

		_, _, err := engine.NewSupervisor(rt).Execute(ctx, start)
		if !errors.Is(err, boom) {
			t.Errorf("expected wrapped routing error, got %v", err)
		}
	})
}
