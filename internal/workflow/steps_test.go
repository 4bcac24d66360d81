package workflow_test

import (
	"context"
	"fmt"
	"testing"

	engine "github.com/JenosKanjiro/social-support-agent/internal/workflow"
	"github.com/JenosKanjiro/social-support-agent/workflow"
)

func TestExtractor(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips extraction", func(t *testing.T) {
		rt, f := newTestRuntime()
		f.extraction.loadFn = func(locator string) (workflow.ExtractedData, error) {
			if locator != "cache/a1.json" {
				t.Errorf("unexpected locator %q", locator)
			}
			return workflow.ExtractedData{EmiratesID: "cached id"}, nil
		}

		patch, transition, err := engine.NewExtractor(rt).Execute(ctx, workflow.State{
			CachedExtractionPath: "cache/a1.json",
			ExtractionPaths:      submissionDocuments(),
		})
		if err != nil {
			t.Fatalf("Execute error: %v", err)
		}
		if transition.Next != workflow.StepValidator {
			t.Errorf("expected validator, got %+v", transition)
		}
		if patch.ExtractedData == nil || patch.ExtractedData.EmiratesID != "cached id" {
			t.Errorf("expected cached extracts, got %+v", patch.ExtractedData)
		}
		if patch.Messages[0].Content != workflow.MsgExtractionComplete {
			t.Errorf("expected completion sentinel, got %+v", patch.Messages)
		}
		if f.extraction.extractCalls != 0 {
			t.Error("cache hit must not call extraction")
		}
	})

	t.Run("empty cache falls through and writes back", func(t *testing.T) {
		rt, f := newTestRuntime()

		patch, transition, err := engine.NewExtractor(rt).Execute(ctx, workflow.State{
			CachedExtractionPath: "cache/a1.json",
			ExtractionPaths:      submissionDocuments(),
		})
		if err != nil {
			t.Fatalf("Execute error: %v", err)
		}
		if transition.Next != workflow.StepValidator {
			t.Errorf("expected validator, got %+v", transition)
		}
		if f.extraction.extractCalls != 1 {
			t.Errorf("expected one extraction call, got %d", f.extraction.extractCalls)
		}
		if f.extraction.storeCalls != 1 {
			t.Errorf("expected cache write-back, got %d store calls", f.extraction.storeCalls)
		}
		if patch.ExtractedData == nil || patch.ExtractedData.EmiratesID != "id text" {
			t.Errorf("expected fresh extracts, got %+v", patch.ExtractedData)
		}
	})

	t.Run("no cache locator means no cache traffic", func(t *testing.T) {
		rt, f := newTestRuntime()

		_, _, err := engine.NewExtractor(rt).Execute(ctx, workflow.State{
			ExtractionPaths: submissionDocuments(),
		})
		if err != nil {
			t.Fatalf("Execute error: %v", err)
		}
		if f.extraction.loadCalls != 0 || f.extraction.storeCalls != 0 {
			t.Errorf("unexpected cache calls: load=%d store=%d",
				f.extraction.loadCalls, f.extraction.storeCalls)
		}
	})

	t.Run("extraction failure routes to supervisor", func(t *testing.T) {
		rt, f := newTestRuntime()
		f.extraction.extractFn = func(map[workflow.DocumentKind]string) (workflow.ExtractedData, error) {
			return workflow.ExtractedData{}, fmt.Errorf("blob store down")
		}

		patch, transition, err := engine.NewExtractor(rt).Execute(ctx, workflow.State{
			ExtractionPaths: submissionDocuments(),
		})
		if err != nil {
			t.Fatalf("Execute error: %v", err)
		}
		if transition.Next != workflow.StepSupervisor {
			t.Errorf("expected supervisor, got %+v", transition)
		}
		if patch.Messages[0].Content != workflow.MsgExtractionFailed {
			t.Errorf("expected failure sentinel, got %+v", patch.Messages)
		}
		if patch.ExtractedData == nil || !patch.ExtractedData.Empty() {
			t.Errorf("expected cleared extracts, got %+v", patch.ExtractedData)
		}
	})
}

func TestValidator(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		score    float64
		sentinel string
		next     workflow.StepName
	}{
		{"score at threshold passes", 0.5, workflow.MsgValidationComplete, workflow.StepDecisionMaker},
		{"score above threshold passes", 0.9, workflow.MsgValidationComplete, workflow.StepDecisionMaker},
		{"score below threshold fails", 0.4, workflow.MsgValidationUnsuccessful, workflow.StepRecommender},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, f := newTestRuntime()
			f.validation.fn = func(workflow.ApplicationData, workflow.ExtractedData) (workflow.ValidationReport, error) {
				return workflow.ValidationReport{OverallScore: tt.score, Summary: "checked"}, nil
			}

			patch, transition, err := engine.NewValidator(rt).Execute(ctx, workflow.State{
				ApplicationData: sampleApplication(),
			})
			if err != nil {
				t.Fatalf("Execute error: %v", err)
			}
			if transition.Next != tt.next {
				t.Errorf("expected %s, got %+v", tt.next, transition)
			}
			if patch.Messages[0].Content != tt.sentinel {
				t.Errorf("expected %q, got %+v", tt.sentinel, patch.Messages)
			}
			if patch.ValidationResult == nil || patch.ValidationResult.OverallScore != tt.score {
				t.Errorf("expected report merged, got %+v", patch.ValidationResult)
			}
		})
	}

	t.Run("collaborator failure clears report", func(t *testing.T) {
		rt, f := newTestRuntime()
		f.validation.fn = func(workflow.ApplicationData, workflow.ExtractedData) (workflow.ValidationReport, error) {
			return workflow.ValidationReport{}, fmt.Errorf("model unavailable")
		}

		patch, transition, err := engine.NewValidator(rt).Execute(ctx, workflow.State{})
		if err != nil {
			t.Fatalf("Execute error: %v", err)
		}
		if transition.Next != workflow.StepSupervisor {
			t.Errorf("expected supervisor, got %+v", transition)
		}
		if patch.Messages[0].Content != workflow.MsgValidationFailed {
			t.Errorf("expected failure sentinel, got %+v", patch.Messages)
		}
		if patch.ValidationResult == nil || !patch.ValidationResult.Empty() {
			t.Errorf("expected cleared report, got %+v", patch.ValidationResult)
		}
	})
}

func TestDecisionMaker(t *testing.T) {
	ctx := context.Background()

	t.Run("financial only terminates at supervisor", func(t *testing.T) {
		rt, f := newTestRuntime()
		f.decisions.fn = func(workflow.ApplicationData) (workflow.Decision, error) {
			return workflow.Decision{Label: workflow.LabelFinancialOnly, Reason: "income below cut"}, nil
		}

		patch, transition, err := engine.NewDecisionMaker(rt).Execute(ctx, workflow.State{
			ApplicationData: sampleApplication(),
		})
		if err != nil {
			t.Fatalf("Execute error: %v", err)
		}
		if transition.Next != workflow.StepSupervisor {
			t.Errorf("expected supervisor, got %+v", transition)
		}
		if patch.Messages[0].Content != workflow.MsgDecisionFinancialOnly {
			t.Errorf("expected financial-only sentinel, got %+v", patch.Messages)
		}
		if patch.Decision == nil || patch.Decision.Label != workflow.LabelFinancialOnly {
			t.Errorf("expected decision merged, got %+v", patch.Decision)
		}
	})

	t.Run("other labels continue to recommender", func(t *testing.T) {
		rt, _ := newTestRuntime()

		patch, transition, err := engine.NewDecisionMaker(rt).Execute(ctx, workflow.State{
			ApplicationData: sampleApplication(),
		})
		if err != nil {
			t.Fatalf("Execute error: %v", err)
		}
		if transition.Next != workflow.StepRecommender {
			t.Errorf("expected recommender, got %+v", transition)
		}
		if patch.Messages[0].Content != workflow.MsgDecisionMade {
			t.Errorf("expected decision sentinel, got %+v", patch.Messages)
		}
	})

	t.Run("prediction failure clears decision", func(t *testing.T) {
		rt, f := newTestRuntime()
		f.decisions.fn = func(workflow.ApplicationData) (workflow.Decision, error) {
			return workflow.Decision{}, fmt.Errorf("model service down")
		}

		patch, transition, err := engine.NewDecisionMaker(rt).Execute(ctx, workflow.State{})
		if err != nil {
			t.Fatalf("Execute error: %v", err)
		}
		if transition.Next != workflow.StepSupervisor {
			t.Errorf("expected supervisor, got %+v", transition)
		}
		if patch.Messages[0].Content != workflow.MsgDecisionFailed {
			t.Errorf("expected failure sentinel, got %+v", patch.Messages)
		}
		if patch.Decision == nil || !patch.Decision.Empty() {
			t.Errorf("expected cleared decision, got %+v", patch.Decision)
		}
	})
}

func TestRecommender(t *testing.T) {
	ctx := context.Background()

	t.Run("validation failure path uses remediation template", func(t *testing.T) {
		rt, f := newTestRuntime()

		state := workflow.State{
			Messages: []workflow.Message{
				{Speaker: string(workflow.StepValidator), Content: workflow.MsgValidationUnsuccessful},
			},
			ExtractedData: workflow.ExtractedData{
				EmiratesID:    "id text",
				BankStatement: "bank text",
				Resume:        "resume text",
			},
		}

		patch, transition, err := engine.NewRecommender(rt).Execute(ctx, state)
		if err != nil {
			t.Fatalf("Execute error: %v", err)
		}
		if transition.Next != workflow.StepSupervisor {
			t.Errorf("expected supervisor, got %+v", transition)
		}
		if patch.Messages[0].Content != workflow.MsgValidationPathComplete {
			t.Errorf("expected validation-path sentinel, got %+v", patch.Messages)
		}
		if f.generation.templates[0] != engine.TemplateValidationFailure {
			t.Errorf("expected remediation template, got %q", f.generation.templates[0])
		}
		vars := f.generation.vars[0]
		if vars["emirates_id_extract"] != "id text" || vars["resume_extract"] != "resume text" {
			t.Errorf("unexpected template variables: %v", vars)
		}
	})

	t.Run("decision path uses recommendation template", func(t *testing.T) {
		rt, f := newTestRuntime()

		state := workflow.State{
			Messages: []workflow.Message{
				{Speaker: string(workflow.StepDecisionMaker), Content: workflow.MsgDecisionMade},
			},
			ApplicationData: sampleApplication(),
			Decision:        workflow.Decision{Label: "Declined", Reason: "sufficient income"},
		}

		patch, transition, err := engine.NewRecommender(rt).Execute(ctx, state)
		if err != nil {
			t.Fatalf("Execute error: %v", err)
		}
		if transition.Next != workflow.StepSupervisor {
			t.Errorf("expected supervisor, got %+v", transition)
		}
		if patch.Messages[0].Content != workflow.MsgPipelineComplete {
			t.Errorf("expected pipeline sentinel, got %+v", patch.Messages)
		}
		if patch.Recommendations == nil || *patch.Recommendations != "generated text" {
			t.Errorf("expected generated recommendations, got %v", patch.Recommendations)
		}
		if f.generation.templates[0] != engine.TemplateRecommendation {
			t.Errorf("expected recommendation template, got %q", f.generation.templates[0])
		}
		vars := f.generation.vars[0]
		if vars["decision"] != "Declined" || vars["monthly_income"] != "2500" {
			t.Errorf("unexpected template variables: %v", vars)
		}
		if vars["household_size"] != "4" || vars["marital_status"] != "Married" {
			t.Errorf("unexpected template variables: %v", vars)
		}
	})

	t.Run("generation failure clears recommendations", func(t *testing.T) {
		rt, f := newTestRuntime()
		f.generation.fn = func(string, map[string]string) (string, error) {
			return "", fmt.Errorf("model unavailable")
		}

		patch, transition, err := engine.NewRecommender(rt).Execute(ctx, workflow.State{
			ApplicationData: sampleApplication(),
		})
		if err != nil {
			t.Fatalf("Execute error: %v", err)
		}
		if transition.Next != workflow.StepSupervisor {
			t.Errorf("expected supervisor, got %+v", transition)
		}
		if patch.Messages[0].Content != workflow.MsgRecommenderFailed {
			t.Errorf("expected failure sentinel, got %+v", patch.Messages)
		}
		if patch.Recommendations == nil || *patch.Recommendations != "" {
			t.Errorf("expected cleared recommendations, got %v", patch.Recommendations)
		}
	})
}

func TestChatbot(t *testing.T) {
	ctx := context.Background()

	t.Run("successful reply extends the log", func(t *testing.T) {
		rt, f := newTestRuntime()
		f.generation.fn = func(templateID string, vars map[string]string) (string, error) {
			if templateID != engine.TemplateConversation {
				t.Errorf("expected conversation template, got %q", templateID)
			}
			if vars["user_question"] != "What documents do I need?" {
				t.Errorf("unexpected question variable: %v", vars)
			}
			if vars["context_text"] != "support context" {
				t.Errorf("expected retrieved passage, got %q", vars["context_text"])
			}
			return "Five documents are required.", nil
		}

		state := workflow.State{
			Messages: []workflow.Message{
				{Speaker: string(workflow.StepSupervisor), Content: "What documents do I need?"},
			},
			ChatLog: []string{"User: hi", "System: Hello!"},
		}

		patch, transition, err := engine.NewChatbot(rt).Execute(ctx, state)
		if err != nil {
			t.Fatalf("Execute error: %v", err)
		}
		if transition.Next != workflow.StepSupervisor {
			t.Errorf("expected supervisor, got %+v", transition)
		}
		if patch.Messages[0].Content != workflow.MsgChatReplyBuilt {
			t.Errorf("expected reply sentinel, got %+v", patch.Messages)
		}

		want := []string{
			"User: hi",
			"System: Hello!",
			"User: What documents do I need?",
			"System: Five documents are required.",
		}
		if len(patch.ChatLog) != len(want) {
			t.Fatalf("expected %d log lines, got %v", len(want), patch.ChatLog)
		}
		for i, line := range want {
			if patch.ChatLog[i] != line {
				t.Errorf("log line %d: expected %q, got %q", i, line, patch.ChatLog[i])
			}
		}
		if f.retrieval.calls != 1 {
			t.Errorf("expected one retrieval call, got %d", f.retrieval.calls)
		}
	})

	t.Run("failure resets the log to this turn", func(t *testing.T) {
		rt, f := newTestRuntime()
		f.retrieval.fn = func(string) ([]string, error) {
			return nil, fmt.Errorf("vector store down")
		}

		state := workflow.State{
			Messages: []workflow.Message{
				{Speaker: string(workflow.StepSupervisor), Content: "Is my application approved?"},
			},
			ChatLog: []string{"User: hi", "System: Hello!"},
		}

		patch, transition, err := engine.NewChatbot(rt).Execute(ctx, state)
		if err != nil {
			t.Fatalf("Execute error: %v", err)
		}
		if transition.Next != workflow.StepSupervisor {
			t.Errorf("expected supervisor, got %+v", transition)
		}
		if patch.Messages[0].Content != workflow.MsgChatReplyFailed {
			t.Errorf("expected failure sentinel, got %+v", patch.Messages)
		}

		want := []string{
			"User: Is my application approved?",
			"System: " + workflow.ChatApology,
		}
		if len(patch.ChatLog) != 2 || patch.ChatLog[0] != want[0] || patch.ChatLog[1] != want[1] {
			t.Errorf("expected reset log %v, got %v", want, patch.ChatLog)
		}
	})

	t.Run("empty retrieval still answers", func(t *testing.T) {
		rt, f := newTestRuntime()
		f.retrieval.fn = func(string) ([]string, error) {
			return nil, nil
		}
		f.generation.fn = func(_ string, vars map[string]string) (string, error) {
			if vars["context_text"] != "" {
				t.Errorf("expected empty context, got %q", vars["context_text"])
			}
			return "Happy to help.", nil
		}

		patch, _, err := engine.NewChatbot(rt).Execute(ctx, workflow.State{
			Messages: []workflow.Message{
				{Speaker: string(workflow.StepSupervisor), Content: "hello"},
			},
		})
		if err != nil {
			t.Fatalf("Execute error: %v", err)
		}
		if patch.Messages[0].Content != workflow.MsgChatReplyBuilt {
			t.Errorf("expected reply sentinel, got %+v", patch.Messages)
		}
	})
}
