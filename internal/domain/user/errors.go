package user

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrAdminNotFound = errors.New("admin not found")
	ErrUserSuspended = errors.New("account is suspended")

	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
)
