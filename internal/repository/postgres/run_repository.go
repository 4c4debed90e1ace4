package postgres

import (
	"context"
	"database/sql"
	"time"
)

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// PipelineRun is the audit record of one moves processing run.
type PipelineRun struct {
	ID          int64          `db:"id" json:"id"`
	Source      string         `db:"source" json:"source"`
	TriggeredBy string         `db:"triggered_by" json:"triggeredBy"`
	Status      string         `db:"status" json:"status"`
	RawRows     int            `db:"raw_rows" json:"rawRows"`
	LegRows     int            `db:"leg_rows" json:"legRows"`
	PivotRows   int            `db:"pivot_rows" json:"pivotRows"`
	StartedAt   time.Time      `db:"started_at" json:"startedAt"`
	CompletedAt sql.NullTime   `db:"completed_at" json:"completedAt"`
	ErrorMsg    sql.NullString `db:"error_message" json:"errorMessage"`
}

// RunRepository tracks pipeline runs in the pipeline_runs table.
type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// CreateRun inserts a run in the running state and fills run.ID.
func (r *RunRepository) CreateRun(ctx context.Context, run *PipelineRun) error {
	query := `
		INSERT INTO pipeline_runs (
			source, triggered_by, status, raw_rows, leg_rows, pivot_rows, started_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	return r.db.QueryRowContext(
		ctx, query,
		run.Source, run.TriggeredBy, run.Status,
		run.RawRows, run.LegRows, run.PivotRows, run.StartedAt,
	).Scan(&run.ID)
}

// CompleteRun marks a run as completed with its final row counts.
func (r *RunRepository) CompleteRun(ctx context.Context, id int64, rawRows, legRows, pivotRows int) error {
	query := `
		UPDATE pipeline_runs
		SET status = $1, raw_rows = $2, leg_rows = $3, pivot_rows = $4, completed_at = $5
		WHERE id = $6
	`

	_, err := r.db.ExecContext(ctx, query,
		RunStatusCompleted, rawRows, legRows, pivotRows, time.Now(), id)
	return err
}

// FailRun marks a run as failed, recording the error message.
func (r *RunRepository) FailRun(ctx context.Context, id int64, errMsg string) error {
	query := `
		UPDATE pipeline_runs
		SET status = $1, error_message = $2, completed_at = $3
		WHERE id = $4
	`

	_, err := r.db.ExecContext(ctx, query, RunStatusFailed, errMsg, time.Now(), id)
	return err
}

// RecentRuns returns the latest runs, newest first.
func (r *RunRepository) RecentRuns(ctx context.Context, limit int) ([]*PipelineRun, error) {
	query := `
		SELECT id, source, triggered_by, status, raw_rows, leg_rows, pivot_rows,
		       started_at, completed_at, error_message
		FROM pipeline_runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*PipelineRun
	for rows.Next() {
		run := &PipelineRun{}
		err := rows.Scan(
			&run.ID, &run.Source, &run.TriggeredBy, &run.Status,
			&run.RawRows, &run.LegRows, &run.PivotRows,
			&run.StartedAt, &run.CompletedAt, &run.ErrorMsg,
		)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
