package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/niosa-ap/attendance-backend-go/internal/domain/correction"
	"github.com/niosa-ap/attendance-backend-go/internal/pkg/database"
)

type correctionRepository struct {
	db *database.DB
}

const correctionColumns = `
	id, staff_id, user_name, field, old_value, new_value, reason,
	status, request_date, approved_at, created_at, updated_at
`

func scanCorrection(row pgx.Row) (*correction.Request, error) {
	var req correction.Request
	err := row.Scan(
		&req.ID, &req.StaffID, &req.UserName, &req.Field, &req.OldValue, &req.NewValue, &req.Reason,
		&req.Status, &req.RequestDate, &req.ApprovedAt, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, correction.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to scan correction request: %w", err)
	}
	return &req, nil
}

// Create implements correction.Repository.
func (r *correctionRepository) Create(ctx context.Context, req *correction.Request) (*correction.Request, error) {
	q := GetQuerier(ctx, r.db)

	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	query := `
		INSERT INTO correction_requests (
			id, staff_id, user_name, field, old_value, new_value, reason, status, request_date
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING ` + correctionColumns

	created, err := scanCorrection(q.QueryRow(ctx, query,
		req.ID,
		req.StaffID,
		req.UserName,
		req.Field,
		req.OldValue,
		req.NewValue,
		req.Reason,
		req.Status,
		req.RequestDate,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create correction request: %w", err)
	}

	return created, nil
}

// GetByID implements correction.Repository.
func (r *correctionRepository) GetByID(ctx context.Context, id string) (*correction.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + correctionColumns + ` FROM correction_requests WHERE id = $1`

	return scanCorrection(q.QueryRow(ctx, query, id))
}

// FindPendingByStaff implements correction.Repository.
func (r *correctionRepository) FindPendingByStaff(ctx context.Context, staffID string) (*correction.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + correctionColumns + `
		FROM correction_requests
		WHERE staff_id = $1
		  AND status = 'pending'
		ORDER BY request_date DESC
		LIMIT 1
	`

	return scanCorrection(q.QueryRow(ctx, query, staffID))
}

// FindApprovedByStaff implements correction.Repository.
func (r *correctionRepository) FindApprovedByStaff(ctx context.Context, staffID string) (*correction.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + correctionColumns + `
		FROM correction_requests
		WHERE staff_id = $1
		  AND status = 'approved'
		ORDER BY approved_at DESC
		LIMIT 1
	`

	return scanCorrection(q.QueryRow(ctx, query, staffID))
}

func buildCorrectionFilter(filter correction.ListFilter, args []any) (string, []any) {
	var conditions []string

	if filter.StaffID != "" {
		args = append(args, filter.StaffID)
		conditions = append(conditions, fmt.Sprintf("staff_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *correctionRepository) list(ctx context.Context, filter correction.ListFilter) ([]correction.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	where, args := buildCorrectionFilter(filter, nil)

	var total int64
	countQuery := `SELECT COUNT(*) FROM correction_requests` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count correction requests: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := `SELECT ` + correctionColumns + ` FROM correction_requests` + where +
		fmt.Sprintf(" ORDER BY request_date DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list correction requests: %w", err)
	}
	defer rows.Close()

	var items []correction.Request
	for rows.Next() {
		req, err := scanCorrection(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read correction requests: %w", err)
	}

	return items, total, nil
}

// ListByStaff implements correction.Repository.
func (r *correctionRepository) ListByStaff(ctx context.Context, staffID string, filter correction.ListFilter) ([]correction.Request, int64, error) {
	filter.StaffID = staffID
	return r.list(ctx, filter)
}

// List implements correction.Repository.
func (r *correctionRepository) List(ctx context.Context, filter correction.ListFilter) ([]correction.Request, int64, error) {
	return r.list(ctx, filter)
}

// Approve implements correction.Repository.
func (r *correctionRepository) Approve(ctx context.Context, id string, approvedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE correction_requests
		SET status = 'approved', approved_at = $1, updated_at = NOW()
		WHERE id = $2
		  AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query, approvedAt, id)
	if err != nil {
		return fmt.Errorf("failed to approve correction request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return correction.ErrAlreadyProcessed
	}

	return nil
}

// Reject implements correction.Repository.
func (r *correctionRepository) Reject(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE correction_requests
		SET status = 'rejected', updated_at = NOW()
		WHERE id = $1
		  AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to reject correction request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return correction.ErrAlreadyProcessed
	}

	return nil
}

// Complete implements correction.Repository.
//
// The status guard makes the grant single use: a second Apply, or an
// Apply racing the expiry sweep, updates zero rows.
func (r *correctionRepository) Complete(ctx context.Context, id string, newValue string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE correction_requests
		SET status = 'completed', new_value = $1, updated_at = NOW()
		WHERE id = $2
		  AND status = 'approved'
	`

	tag, err := q.Exec(ctx, query, newValue, id)
	if err != nil {
		return fmt.Errorf("failed to complete correction request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return correction.ErrRequestNotEditable
	}

	return nil
}

// ExpireStale implements correction.Repository.
func (r *correctionRepository) ExpireStale(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE correction_requests
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'approved'
		  AND approved_at < $1
	`

	tag, err := q.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire correction requests: %w", err)
	}

	return tag.RowsAffected(), nil
}

func NewCorrectionRepository(db *database.DB) correction.Repository {
	return &correctionRepository{db: db}
}
