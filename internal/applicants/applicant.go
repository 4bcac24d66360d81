// Package applicants implements the applicant and application domain:
// relational records of who applied, what they applied for, and what was
// decided. Completed workflow invocations are recorded here.
package applicants

import (
	"time"

	"github.com/google/uuid"
)

// Applicant represents the identity record captured from a submission.
type Applicant struct {
	ID          uuid.UUID `json:"id"`
	ApplicantID string    `json:"applicant_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DateOfBirth string    `json:"date_of_birth"`
	Gender      string    `json:"gender"`
	Nationality string    `json:"nationality"`
	EmiratesID  string    `json:"emirates_id"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Application represents one processed social support application and its
// outcome.
type Application struct {
	ID              uuid.UUID `json:"id"`
	ApplicantID     string    `json:"applicant_id"`
	ThreadID        string    `json:"thread_id"`
	Status          string    `json:"status"`
	Decision        string    `json:"decision"`
	DecisionReason  string    `json:"decision_reason"`
	ValidationScore float64   `json:"validation_score"`
	Recommendations string    `json:"recommendations"`
	CreatedAt       time.Time `json:"created_at"`
	CompletedAt     time.Time `json:"completed_at"`
}

// Application statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)
