package applicants

import (
	"net/url"

	"github.com/JenosKanjiro/social-support-agent/pkg/query"
	"github.com/JenosKanjiro/social-support-agent/pkg/repository"
)

var applicationProjection = query.
	NewProjectionMap("public", "applications", "a").
	Project("id", "ID").
	Project("applicant_id", "ApplicantID").
	Project("thread_id", "ThreadID").
	Project("status", "Status").
	Project("decision", "Decision").
	Project("decision_reason", "DecisionReason").
	Project("validation_score", "ValidationScore").
	Project("recommendations", "Recommendations").
	Project("created_at", "CreatedAt").
	Project("completed_at", "CompletedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for application queries.
// Nil fields are ignored. ApplicantID, ThreadID, Status, and Decision use
// exact matching.
type Filters struct {
	ApplicantID *string `json:"applicant_id,omitempty"`
	ThreadID    *string `json:"thread_id,omitempty"`
	Status      *string `json:"status,omitempty"`
	Decision    *string `json:"decision,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ApplicantID", f.ApplicantID).
		WhereEquals("ThreadID", f.ThreadID).
		WhereEquals("Status", f.Status).
		WhereEquals("Decision", f.Decision)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if a := values.Get("applicant_id"); a != "" {
		f.ApplicantID = &a
	}

	if t := values.Get("thread_id"); t != "" {
		f.ThreadID = &t
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if d := values.Get("decision"); d != "" {
		f.Decision = &d
	}

	return f
}

func scanApplication(s repository.Scanner) (Application, error) {
	var a Application
	err := s.Scan(
		&a.ID,
		&a.ApplicantID,
		&a.ThreadID,
		&a.Status,
		&a.Decision,
		&a.DecisionReason,
		&a.ValidationScore,
		&a.Recommendations,
		&a.CreatedAt,
		&a.CompletedAt,
	)
	return a, err
}

func scanApplicant(s repository.Scanner) (Applicant, error) {
	var a Applicant
	err := s.Scan(
		&a.ID,
		&a.ApplicantID,
		&a.FirstName,
		&a.LastName,
		&a.DateOfBirth,
		&a.Gender,
		&a.Nationality,
		&a.EmiratesID,
		&a.Address,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}
