package applicants

import (
	"context"
	"errors"
	"testing"

	"github.com/JenosKanjiro/social-support-agent/workflow"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name  string
		state workflow.State
		want  string
	}{
		{
			"decision and recommendations",
			workflow.State{
				Decision:        workflow.Decision{Label: "Declined", Reason: "insufficient need"},
				Recommendations: "economic enablement guidance",
			},
			StatusCompleted,
		},
		{
			"validation failure with guidance",
			workflow.State{
				Recommendations: "resubmission guidance",
			},
			StatusCompleted,
		},
		{
			"financial-only decision without recommendations",
			workflow.State{
				Decision: workflow.Decision{Label: "Financial Support Approved", Reason: "eligible"},
			},
			StatusCompleted,
		},
		{
			"no decision and no recommendations",
			workflow.State{},
			StatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deriveStatus(tt.state); got != tt.want {
				t.Errorf("deriveStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecordRejectsEmptyApplicationData(t *testing.T) {
	r := &repo{}

	err := r.Record(context.Background(), workflow.State{ThreadID: "t1"})
	if !errors.Is(err, ErrInvalidArg) {
		t.Errorf("expected ErrInvalidArg, got %v", err)
	}
}
