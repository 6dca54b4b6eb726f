package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/niosa-ap/attendance-backend-go/internal/domain/user"
	"github.com/niosa-ap/attendance-backend-go/internal/pkg/database"
)

type userRepository struct {
	db *database.DB
}

const userColumns = `
	id, staff_id, name, phone, address, photo_url, password_hash,
	profile_completed, status, suspend_reason, created_at, updated_at
`

func (r *userRepository) scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.StaffID, &u.Name, &u.Phone, &u.Address, &u.PhotoURL, &u.PasswordHash,
		&u.ProfileCompleted, &u.Status, &u.SuspendReason, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// GetByID implements user.Repository.
func (r *userRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return r.scanUser(q.QueryRow(ctx, query, id))
}

// GetByStaffID implements user.Repository.
func (r *userRepository) GetByStaffID(ctx context.Context, staffID string) (*user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE staff_id = $1`

	return r.scanUser(q.QueryRow(ctx, query, staffID))
}

func (r *userRepository) updateColumn(ctx context.Context, id, column, value string) error {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE users
		SET %s = $1, updated_at = NOW()
		WHERE id = $2
	`, column)

	tag, err := q.Exec(ctx, query, value, id)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// UpdateName implements user.Repository.
func (r *userRepository) UpdateName(ctx context.Context, id, name string) error {
	return r.updateColumn(ctx, id, "name", name)
}

// UpdatePhone implements user.Repository.
func (r *userRepository) UpdatePhone(ctx context.Context, id, phone string) error {
	return r.updateColumn(ctx, id, "phone", phone)
}

// UpdateAddress implements user.Repository.
func (r *userRepository) UpdateAddress(ctx context.Context, id, address string) error {
	return r.updateColumn(ctx, id, "address", address)
}

// UpdatePhotoURL implements user.Repository.
func (r *userRepository) UpdatePhotoURL(ctx context.Context, id, photoURL string) error {
	return r.updateColumn(ctx, id, "photo_url", photoURL)
}

func NewUserRepository(db *database.DB) user.Repository {
	return &userRepository{db: db}
}

type adminRepository struct {
	db *database.DB
}

func (r *adminRepository) scanAdmin(row pgx.Row) (*user.Admin, error) {
	var a user.Admin
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, user.ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to scan admin: %w", err)
	}
	return &a, nil
}

// GetByID implements user.AdminRepository.
func (r *adminRepository) GetByID(ctx context.Context, id string) (*user.Admin, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, email, name, password_hash, role, created_at
		FROM admins
		WHERE id = $1
	`

	return r.scanAdmin(q.QueryRow(ctx, query, id))
}

// GetByEmail implements user.AdminRepository.
func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*user.Admin, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, email, name, password_hash, role, created_at
		FROM admins
		WHERE LOWER(email) = LOWER($1)
	`

	return r.scanAdmin(q.QueryRow(ctx, query, email))
}

func NewAdminRepository(db *database.DB) user.AdminRepository {
	return &adminRepository{db: db}
}
