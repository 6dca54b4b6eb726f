package user

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByStaffID(ctx context.Context, staffID string) (*User, error)
	UpdateName(ctx context.Context, id, name string) error
	UpdatePhone(ctx context.Context, id, phone string) error
	UpdateAddress(ctx context.Context, id, address string) error
	UpdatePhotoURL(ctx context.Context, id, photoURL string) error
}

type AdminRepository interface {
	GetByID(ctx context.Context, id string) (*Admin, error)
	GetByEmail(ctx context.Context, email string) (*Admin, error)
}
