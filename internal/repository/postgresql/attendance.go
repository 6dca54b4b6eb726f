package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/niosa-ap/attendance-backend-go/internal/domain/attendance"
	"github.com/niosa-ap/attendance-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

const attendanceColumns = `
	id, staff_id, user_name, date, in_time, out_time, status,
	latitude, longitude, photo_url,
	overtime_start, overtime_end, overtime_hours, overtime_review_required,
	created_at, updated_at
`

func scanAttendance(row pgx.Row) (*attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.StaffID, &att.UserName, &att.Date, &att.InTime, &att.OutTime, &att.Status,
		&att.Latitude, &att.Longitude, &att.PhotoURL,
		&att.Overtime.StartTime, &att.Overtime.EndTime, &att.Overtime.Hours, &att.Overtime.ReviewRequired,
		&att.CreatedAt, &att.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, attendance.ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("failed to scan attendance: %w", err)
	}
	return &att, nil
}

// CreateIfAbsent implements attendance.Repository.
//
// The UNIQUE (staff_id, date) constraint is the arbiter for racing
// check-ins; ON CONFLICT DO NOTHING makes the losing insert return
// no row instead of an error.
func (r *attendanceRepository) CreateIfAbsent(ctx context.Context, att *attendance.Attendance) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	if att.ID == "" {
		att.ID = uuid.New().String()
	}

	query := `
		INSERT INTO attendances (
			id, staff_id, user_name, date, in_time, status,
			latitude, longitude, photo_url
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		ON CONFLICT (staff_id, date) DO NOTHING
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		att.ID,
		att.StaffID,
		att.UserName,
		att.Date,
		att.InTime,
		att.Status,
		att.Latitude,
		att.Longitude,
		att.PhotoURL,
	))
	if err != nil {
		if err == attendance.ErrAttendanceNotFound {
			return nil, attendance.ErrAlreadyCheckedIn
		}
		return nil, fmt.Errorf("failed to create attendance: %w", err)
	}

	return created, nil
}

// GetByID implements attendance.Repository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id = $1`

	return scanAttendance(q.QueryRow(ctx, query, id))
}

// GetByStaffAndDate implements attendance.Repository.
func (r *attendanceRepository) GetByStaffAndDate(ctx context.Context, staffID, date string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE staff_id = $1 AND date = $2`

	return scanAttendance(q.QueryRow(ctx, query, staffID, date))
}

// StartOvertime implements attendance.Repository.
func (r *attendanceRepository) StartOvertime(ctx context.Context, id string, start, outTime time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET overtime_start = $1, out_time = $2, updated_at = NOW()
		WHERE id = $3
		  AND overtime_start IS NULL
	`

	tag, err := q.Exec(ctx, query, start, outTime, id)
	if err != nil {
		return fmt.Errorf("failed to start overtime: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrOvertimeAlreadyStarted
	}

	return nil
}

// StopOvertime implements attendance.Repository.
func (r *attendanceRepository) StopOvertime(ctx context.Context, id string, end time.Time, hours float64, reviewRequired bool) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET overtime_end = $1, overtime_hours = $2, overtime_review_required = $3, updated_at = NOW()
		WHERE id = $4
		  AND overtime_start IS NOT NULL
		  AND overtime_end IS NULL
	`

	tag, err := q.Exec(ctx, query, end, hours, reviewRequired, id)
	if err != nil {
		return fmt.Errorf("failed to stop overtime: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrOvertimeNotStarted
	}

	return nil
}

func buildAttendanceFilter(filter attendance.ListFilter, args []any) (string, []any) {
	var conditions []string

	if filter.StaffID != "" {
		args = append(args, filter.StaffID)
		conditions = append(conditions, fmt.Sprintf("staff_id = $%d", len(args)))
	}
	if filter.Date != "" {
		args = append(args, filter.Date)
		conditions = append(conditions, fmt.Sprintf("date = $%d", len(args)))
	}
	if filter.StartDate != "" {
		args = append(args, filter.StartDate)
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.EndDate != "" {
		args = append(args, filter.EndDate)
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)))
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

func (r *attendanceRepository) list(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	where, args := buildAttendanceFilter(filter, nil)

	var total int64
	countQuery := `SELECT COUNT(*) FROM attendances` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := `SELECT ` + attendanceColumns + ` FROM attendances` + where +
		fmt.Sprintf(" ORDER BY date DESC, in_time DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var items []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read attendances: %w", err)
	}

	return items, total, nil
}

// ListByStaff implements attendance.Repository.
func (r *attendanceRepository) ListByStaff(ctx context.Context, staffID string, filter attendance.ListFilter) ([]attendance.Attendance, int64, error) {
	filter.StaffID = staffID
	return r.list(ctx, filter)
}

// List implements attendance.Repository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, int64, error) {
	return r.list(ctx, filter)
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}
