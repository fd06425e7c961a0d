package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/TWRT/taskboard/internal/models"
)

const defaultListLimit = 100

type OperationRepository struct {
	db *sql.DB
}

func NewOperationRepository(db *sql.DB) *OperationRepository {
	return &OperationRepository{db: db}
}

func (r *OperationRepository) Record(ctx context.Context, op models.Operation) error {
	query := `
		INSERT INTO operations (kind, task_id, outcome, error_message, created_at)
        VALUES (?, ?, ?, ?, ?)
	`

	createdAt := op.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		string(op.Kind),
		op.TaskID,
		string(op.Outcome),
		op.ErrorMessage,
		createdAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("record %s operation: %w", op.Kind, err)
	}

	return nil
}

// List returns the most recent operations first.
func (r *OperationRepository) List(ctx context.Context, limit int) ([]models.Operation, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `
	SELECT id, kind, task_id, outcome, error_message, created_at
	FROM operations ORDER BY id DESC LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	defer rows.Close()

	operations := make([]models.Operation, 0)
	for rows.Next() {
		var (
			op           models.Operation
			kind         string
			taskID       sql.NullString
			outcome      string
			errorMessage sql.NullString
		)
		if err := rows.Scan(&op.ID, &kind, &taskID, &outcome, &errorMessage, &op.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		op.Kind = models.OperationKind(kind)
		op.TaskID = taskID.String
		op.Outcome = models.Outcome(outcome)
		op.ErrorMessage = errorMessage.String
		operations = append(operations, op)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}

	return operations, nil
}

// ListLocal returns operations for a task that never reached the backend.
func (r *OperationRepository) ListLocal(ctx context.Context, taskID string) ([]models.Operation, error) {
	query := `
	SELECT id, kind, outcome, error_message, created_at
	FROM operations WHERE task_id = ? AND outcome = ? ORDER BY id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, taskID, string(models.OutcomeLocal))
	if err != nil {
		return nil, fmt.Errorf("list local operations for %s: %w", taskID, err)
	}
	defer rows.Close()

	var operations []models.Operation
	for rows.Next() {
		var (
			op           models.Operation
			kind         string
			outcome      string
			errorMessage sql.NullString
		)
		if err := rows.Scan(&op.ID, &kind, &outcome, &errorMessage, &op.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		op.Kind = models.OperationKind(kind)
		op.TaskID = taskID
		op.Outcome = models.Outcome(outcome)
		op.ErrorMessage = errorMessage.String
		operations = append(operations, op)
	}

	return operations, rows.Err()
}
