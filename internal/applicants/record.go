package applicants

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/JenosKanjiro/social-support-agent/pkg/repository"
	"github.com/JenosKanjiro/social-support-agent/workflow"
)

// Record persists the applicant and application rows for a terminated
// workflow invocation. The applicant row is upserted on applicant_id; a
// new application row is written per invocation.
func (r *repo) Record(ctx context.Context, state workflow.State) error {
	data := state.ApplicationData
	if data.Empty() {
		return fmt.Errorf("%w: no application data in state", ErrInvalidArg)
	}

	status := deriveStatus(state)

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := upsertApplicant(ctx, tx, data); err != nil {
			return struct{}{}, err
		}
		if err := insertApplication(ctx, tx, state, status); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("record outcome for %s: %w", state.ThreadID, err)
	}

	r.logger.InfoContext(
		ctx, "outcome recorded",
		"thread_id", state.ThreadID,
		"applicant_id", data.ApplicantID,
		"status", status,
		"decision", state.Decision.Label,
	)

	return nil
}

// deriveStatus classifies a terminated invocation. A run that produced
// neither a decision nor recommendations failed somewhere in the pipeline;
// anything else reached a business outcome, including validation-failure
// runs that carry guidance but no decision.
func deriveStatus(state workflow.State) string {
	if state.Decision.Empty() && state.Recommendations == "" {
		return StatusFailed
	}
	return StatusCompleted
}

func upsertApplicant(ctx context.Context, tx *sql.Tx, data workflow.ApplicationData) error {
	q := `
		INSERT INTO applicants (id, applicant_id, first_name, last_name, date_of_birth,
		                        gender, nationality, emirates_id, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (applicant_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			date_of_birth = EXCLUDED.date_of_birth,
			gender = EXCLUDED.gender,
			nationality = EXCLUDED.nationality,
			emirates_id = EXCLUDED.emirates_id,
			address = EXCLUDED.address,
			updated_at = now()`

	_, err := tx.ExecContext(ctx, q,
		uuid.New(),
		data.ApplicantID,
		data.FirstName,
		data.LastName,
		data.DateOfBirth,
		data.Gender,
		data.Nationality,
		data.EmiratesID,
		data.Address,
	)
	if err != nil {
		return fmt.Errorf("upsert applicant: %w", err)
	}
	return nil
}

func insertApplication(ctx context.Context, tx *sql.Tx, state workflow.State, status string) error {
	q := `
		INSERT INTO applications (id, applicant_id, thread_id, status, decision,
		                          decision_reason, validation_score, recommendations, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())`

	err := repository.ExecExpectOne(ctx, tx, q,
		uuid.New(),
		state.ApplicationData.ApplicantID,
		state.ThreadID,
		status,
		state.Decision.Label,
		state.Decision.Reason,
		state.ValidationResult.OverallScore,
		state.Recommendations,
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}
