// Package checkpoints persists workflow state lineages to PostgreSQL so
// threads survive process restarts.
package checkpoints

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JenosKanjiro/social-support-agent/pkg/repository"
	"github.com/JenosKanjiro/social-support-agent/workflow"
)

// Store is a workflow.CheckpointStore backed by the workflow_checkpoints table.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStore creates a checkpoint store over the given database connection.
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger.With("system", "checkpoints"),
	}
}

// Append adds state as the newest checkpoint in the thread's lineage.
func (s *Store) Append(ctx context.Context, threadID string, state workflow.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}

	err = repository.ExecExpectOne(ctx, s.db,
		`INSERT INTO workflow_checkpoints (thread_id, state) VALUES ($1, $2)`,
		threadID, payload,
	)
	if err != nil {
		return fmt.Errorf("append checkpoint for %s: %w", threadID, err)
	}

	return nil
}

// Latest returns the newest checkpoint for the thread, or nil when the
// thread has no history.
func (s *Store) Latest(ctx context.Context, threadID string) (*workflow.State, error) {
	state, err := repository.QueryOne(ctx, s.db,
		`SELECT state FROM workflow_checkpoints
		 WHERE thread_id = $1
		 ORDER BY id DESC
		 LIMIT 1`,
		[]any{threadID}, scanState,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest checkpoint for %s: %w", threadID, err)
	}

	return &state, nil
}

// History returns the thread's full lineage, oldest first.
func (s *Store) History(ctx context.Context, threadID string) ([]workflow.State, error) {
	states, err := repository.QueryMany(ctx, s.db,
		`SELECT state FROM workflow_checkpoints
		 WHERE thread_id = $1
		 ORDER BY id ASC`,
		[]any{threadID}, scanState,
	)
	if err != nil {
		return nil, fmt.Errorf("history for %s: %w", threadID, err)
	}

	return states, nil
}

func scanState(scan repository.Scanner) (workflow.State, error) {
	var payload []byte
	if err := scan.Scan(&payload); err != nil {
		return workflow.State{}, err
	}

	var state workflow.State
	if err := json.Unmarshal(payload, &state); err != nil {
		return workflow.State{}, fmt.Errorf("decode checkpoint: %w", err)
	}

	return state, nil
}
