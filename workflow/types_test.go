package workflow_test

import (
	"testing"

	"github.com/JenosKanjiro/social-support-agent/workflow"
)

func TestMerge(t *testing.T) {
	t.Run("messages append in order", func(t *testing.T) {
		state := workflow.State{
			Messages: []workflow.Message{{Speaker: "user", Content: "first"}},
		}

		merged := workflow.Merge(state, workflow.Patch{
			Messages: []workflow.Message{
				{Speaker: "extractor", Content: "second"},
				{Speaker: "validator", Content: "third"},
			},
		})

		if len(merged.Messages) != 3 {
			t.Fatalf("expected 3 messages, got %d", len(merged.Messages))
		}
		if merged.Messages[2].Content != "third" {
			t.Errorf("expected newest message last, got %q", merged.Messages[2].Content)
		}
	})

	t.Run("nil fields leave state untouched", func(t *testing.T) {
		state := workflow.State{
			Decision:        workflow.Decision{Label: "Declined", Reason: "low score"},
			Recommendations: "existing",
			ChatLog:         []string{"User: hi"},
		}

		merged := workflow.Merge(state, workflow.Patch{})

		if merged.Decision.Label != "Declined" {
			t.Errorf("decision overwritten: %+v", merged.Decision)
		}
		if merged.Recommendations != "existing" {
			t.Errorf("recommendations overwritten: %q", merged.Recommendations)
		}
		if len(merged.ChatLog) != 1 {
			t.Errorf("chat log overwritten: %v", merged.ChatLog)
		}
	})

	t.Run("non-nil fields replace whole value", func(t *testing.T) {
		state := workflow.State{
			ValidationResult: workflow.ValidationReport{
				OverallScore: 0.9,
				Summary:      "old",
			},
		}

		merged := workflow.Merge(state, workflow.Patch{
			ValidationResult: &workflow.ValidationReport{Summary: "new"},
		})

		if merged.ValidationResult.OverallScore != 0 {
			t.Error("replace should not preserve prior fields")
		}
		if merged.ValidationResult.Summary != "new" {
			t.Errorf("expected replaced summary, got %q", merged.ValidationResult.Summary)
		}
	})

	t.Run("empty string pointer clears value", func(t *testing.T) {
		state := workflow.State{Recommendations: "stale"}

		merged := workflow.Merge(state, workflow.Patch{
			Recommendations: workflow.StringPtr(""),
		})

		if merged.Recommendations != "" {
			t.Errorf("expected cleared recommendations, got %q", merged.Recommendations)
		}
	})

	t.Run("merge does not mutate input state", func(t *testing.T) {
		state := workflow.State{
			Messages: []workflow.Message{{Speaker: "user", Content: "original"}},
			ChatLog:  []string{"User: original"},
		}

		workflow.Merge(state, workflow.Patch{
			Messages: []workflow.Message{{Speaker: "chatbot", Content: "reply"}},
			ChatLog:  []string{"User: replaced"},
		})

		if len(state.Messages) != 1 {
			t.Errorf("input messages mutated: %v", state.Messages)
		}
		if state.ChatLog[0] != "User: original" {
			t.Errorf("input chat log mutated: %v", state.ChatLog)
		}
	})
}

func TestStateClone(t *testing.T) {
	state := workflow.State{
		ThreadID: "t1",
		Messages: []workflow.Message{{Speaker: "user", Content: "hello"}},
		ExtractionPaths: map[workflow.DocumentKind]string{
			workflow.DocResume: "documents/a/resume/cv.pdf",
		},
		ValidationResult: workflow.ValidationReport{
			Fields: []workflow.FieldValidation{{
				Field:           "full_name",
				Valid:           true,
				SourceDocuments: []string{"emirates_id", "resume"},
			}},
			MissingFields: []string{"credit_score"},
		},
		ChatLog: []string{"User: hello"},
	}

	clone := state.Clone()
	clone.Messages[0].Content = "changed"
	clone.ExtractionPaths[workflow.DocResume] = "changed"
	clone.ValidationResult.Fields[0].SourceDocuments[0] = "changed"
	clone.ChatLog[0] = "changed"

	if state.Messages[0].Content != "hello" {
		t.Error("clone shares messages slice")
	}
	if state.ExtractionPaths[workflow.DocResume] != "documents/a/resume/cv.pdf" {
		t.Error("clone shares extraction paths map")
	}
	if state.ValidationResult.Fields[0].SourceDocuments[0] != "emirates_id" {
		t.Error("clone shares validation field slices")
	}
	if state.ChatLog[0] != "User: hello" {
		t.Error("clone shares chat log slice")
	}
}

func TestLastMessage(t *testing.T) {
	var empty workflow.State
	if _, ok := empty.LastMessage(); ok {
		t.Error("empty state should have no last message")
	}

	state := workflow.State{
		Messages: []workflow.Message{
			{Speaker: "user", Content: "first"},
			{Speaker: "chatbot", Content: "last"},
		},
	}

	last, ok := state.LastMessage()
	if !ok {
		t.Fatal("expected a last message")
	}
	if last.Content != "last" {
		t.Errorf("expected newest message, got %q", last.Content)
	}
}
