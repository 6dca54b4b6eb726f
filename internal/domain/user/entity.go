package user

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

type AdminRole string

const (
	RoleSuperAdmin AdminRole = "super_admin"
	RoleAdmin      AdminRole = "admin"
)

// User is a staff member identified by a NIOSA-AP staff ID.
type User struct {
	ID               string
	StaffID          string
	Name             string
	Phone            string
	Address          string
	PhotoURL         *string
	PasswordHash     string
	ProfileCompleted bool
	Status           Status
	SuspendReason    *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (u *User) IsSuspended() bool {
	return u.Status == StatusSuspended
}

// Admin accounts sign in with email and password or Google.
type Admin struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         AdminRole
	CreatedAt    time.Time
}
