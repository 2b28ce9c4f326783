package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/places-backend-go/internal/models"
)

// DetectionRunRepository handles database operations for detection runs
type DetectionRunRepository struct {
	db *sql.DB
}

// NewDetectionRunRepository creates a new detection run repository
func NewDetectionRunRepository(db *sql.DB) *DetectionRunRepository {
	return &DetectionRunRepository{db: db}
}

const runColumns = "id, status, lookback_hours, total_fixes, filtered_fixes, cluster_count, accepted_count, review_count, rejected_count, progress_percent, error_message, summary_json, created_at, started_at, completed_at"

func scanRun(scanner interface{ Scan(...interface{}) error }) (*models.DetectionRun, error) {
	var run models.DetectionRun
	var errorMessage, summaryJSON sql.NullString
	var startedAt, completedAt sql.NullString

	if err := scanner.Scan(&run.ID, &run.Status, &run.LookbackHours, &run.TotalFixes,
		&run.FilteredFixes, &run.ClusterCount, &run.AcceptedCount, &run.ReviewCount,
		&run.RejectedCount, &run.ProgressPercent, &errorMessage, &summaryJSON,
		&run.CreatedAt, &startedAt, &completedAt); err != nil {
		return nil, err
	}

	run.ErrorMessage = errorMessage.String
	run.SummaryJSON = summaryJSON.String
	if startedAt.Valid {
		run.StartedAt = &startedAt.String
	}
	if completedAt.Valid {
		run.CompletedAt = &completedAt.String
	}
	return &run, nil
}

// Create inserts a new pending run and returns its id
func (r *DetectionRunRepository) Create(ctx context.Context, lookbackHours int) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO detection_runs (status, lookback_hours) VALUES (?, ?)
	`, models.RunStatusPending, lookbackHours)
	if err != nil {
		return 0, wrapStorageErr("insert detection run", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}
	return id, nil
}

// GetByID returns one run by id
func (r *DetectionRunRepository) GetByID(ctx context.Context, id int64) (*models.DetectionRun, error) {
	query := "SELECT " + runColumns + " FROM detection_runs WHERE id = ?"
	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("detection run not found: %d", id)
	}
	if err != nil {
		return nil, wrapStorageErr("query detection run", err)
	}
	return run, nil
}

// List returns the most recent runs, newest first
func (r *DetectionRunRepository) List(ctx context.Context, limit int) ([]models.DetectionRun, error) {
	if limit < 1 {
		limit = 50
	}

	query := "SELECT " + runColumns + " FROM detection_runs ORDER BY id DESC LIMIT ?"
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, wrapStorageErr("query detection runs", err)
	}
	defer rows.Close()

	var runs []models.DetectionRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan detection run: %w", err)
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

// MarkRunning transitions a run to running and stamps the start time
func (r *DetectionRunRepository) MarkRunning(ctx context.Context, id int64) error {
	return r.updateStatus(ctx, id, `
		UPDATE detection_runs SET status = ?, started_at = CURRENT_TIMESTAMP WHERE id = ?
	`, models.RunStatusRunning)
}

// MarkCompleted transitions a run to completed with its summary
func (r *DetectionRunRepository) MarkCompleted(ctx context.Context, id int64, summaryJSON string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE detection_runs
		SET status = ?, progress_percent = 100, summary_json = ?, completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, models.RunStatusCompleted, summaryJSON, id)
	if err != nil {
		return wrapStorageErr("complete detection run", err)
	}
	return requireRunAffected(result, id)
}

// MarkFailed transitions a run to failed with the error message
func (r *DetectionRunRepository) MarkFailed(ctx context.Context, id int64, message string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE detection_runs
		SET status = ?, error_message = ?, completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, models.RunStatusFailed, message, id)
	if err != nil {
		return wrapStorageErr("fail detection run", err)
	}
	return requireRunAffected(result, id)
}

// UpdateCounts stores intermediate progress for a running detection
func (r *DetectionRunRepository) UpdateCounts(ctx context.Context, id int64, run *models.DetectionRun) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE detection_runs
		SET total_fixes = ?, filtered_fixes = ?, cluster_count = ?,
		    accepted_count = ?, review_count = ?, rejected_count = ?, progress_percent = ?
		WHERE id = ?
	`, run.TotalFixes, run.FilteredFixes, run.ClusterCount,
		run.AcceptedCount, run.ReviewCount, run.RejectedCount, run.ProgressPercent, id)
	if err != nil {
		return wrapStorageErr("update detection run counts", err)
	}
	return requireRunAffected(result, id)
}

func (r *DetectionRunRepository) updateStatus(ctx context.Context, id int64, query, status string) error {
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return wrapStorageErr("update detection run status", err)
	}
	return requireRunAffected(result, id)
}

func requireRunAffected(result sql.Result, id int64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("detection run not found: %d", id)
	}
	return nil
}
