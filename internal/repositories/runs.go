package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
)

// SyncRunRepository persists completed sync runs for the history command.
type SyncRunRepository struct {
	db *sql.DB
}

// NewSyncRunRepository creates a new SyncRunRepository with the given database connection
func NewSyncRunRepository(db *sql.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

// Create inserts a run record with generated ID and sequence.
func (r *SyncRunRepository) Create(run *models.SyncRun) error {
	sequence, err := NextSequence(r.db, "sync_runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	run.ID = shared.GenerateID()
	run.Sequence = sequence

	query := `
		INSERT INTO sync_runs (
			id, sequence, dry_run, targets, subscribed, already_subscribed,
			unresolved, failed, started_at, finished_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		run.ID,
		run.Sequence,
		run.DryRun,
		run.Targets,
		run.Subscribed,
		run.AlreadySubscribed,
		run.Unresolved,
		run.Failed,
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sync run: %w", err)
	}

	return nil
}

// List retrieves up to limit runs, most recent first.
func (r *SyncRunRepository) List(limit int) ([]*models.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, sequence, dry_run, targets, subscribed, already_subscribed,
			unresolved, failed, started_at, finished_at
		FROM sync_runs
		ORDER BY sequence DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// Latest returns the most recent run, or nil when no runs are recorded.
func (r *SyncRunRepository) Latest() (*models.SyncRun, error) {
	runs, err := r.List(1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return runs[0], nil
}

// scanRun scans a row from [sql.Rows] into a [models.SyncRun]
func scanRun(rows *sql.Rows) (*models.SyncRun, error) {
	var run models.SyncRun
	err := rows.Scan(
		&run.ID,
		&run.Sequence,
		&run.DryRun,
		&run.Targets,
		&run.Subscribed,
		&run.AlreadySubscribed,
		&run.Unresolved,
		&run.Failed,
		&run.StartedAt,
		&run.FinishedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan sync run: %w", err)
	}
	return &run, nil
}
