package generation

import (
	"errors"
	"strings"
	"testing"

	"github.com/JenosKanjiro/social-support-agent/workflow"
)

func TestRender(t *testing.T) {
	t.Run("substitutes every placeholder", func(t *testing.T) {
		out := render("Hello {name}, you are {age}.", map[string]string{
			"name": "Amina",
			"age":  "37",
		})
		if out != "Hello Amina, you are 37." {
			t.Errorf("unexpected render: %q", out)
		}
	})

	t.Run("repeated placeholders all substitute", func(t *testing.T) {
		out := render("{x} and {x}", map[string]string{"x": "twice"})
		if out != "twice and twice" {
			t.Errorf("unexpected render: %q", out)
		}
	})

	t.Run("missing variables stay literal", func(t *testing.T) {
		out := render("keep {unknown}", map[string]string{"other": "value"})
		if out != "keep {unknown}" {
			t.Errorf("unexpected render: %q", out)
		}
	})
}

func TestLookupTemplate(t *testing.T) {
	for _, id := range []string{TemplateRecommendation, TemplateValidationFailure, TemplateConversation} {
		if _, err := lookupTemplate(id); err != nil {
			t.Errorf("lookupTemplate(%q) error: %v", id, err)
		}
	}

	_, err := lookupTemplate("nonexistent")
	if !errors.Is(err, ErrUnknownTemplate) {
		t.Errorf("expected ErrUnknownTemplate, got %v", err)
	}
}

func TestStripReasoning(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"no reasoning", "plain answer", "plain answer"},
		{"reasoning stripped", "<think>step by step</think>\nfinal answer", "final answer"},
		{"whitespace trimmed", "  padded  ", "padded"},
		{"empty after reasoning", "<think>only thoughts</think>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripReasoning(tt.content); got != tt.want {
				t.Errorf("stripReasoning(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestFormatExtractions(t *testing.T) {
	out := formatExtractions(workflow.ExtractedData{
		EmiratesID:    "id text",
		BankStatement: "bank text",
	})

	for _, label := range []string{"Emirates ID:", "Bank Statement:", "Credit Report:", "Resume:", "Assets and Liabilities:"} {
		if !strings.Contains(out, label) {
			t.Errorf("expected section %q in output:\n%s", label, out)
		}
	}
	if !strings.Contains(out, "id text") || !strings.Contains(out, "bank text") {
		t.Errorf("expected extract bodies in output:\n%s", out)
	}
}

func TestFormatApplicationData(t *testing.T) {
	out := formatApplicationData(workflow.ApplicationData{
		FullName:       "Test Applicant",
		MonthlyIncome:  2500.5,
		Age:            37,
		EducationLevel: "high school",
	})

	want := "full_name: Test Applicant\nmonthly_income: 2500.5\nage: 37\neducation_level: high school"
	if out != want {
		t.Errorf("unexpected formatting:\n%q\nwant:\n%q", out, want)
	}
}
