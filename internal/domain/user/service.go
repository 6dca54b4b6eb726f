package user

import "context"

type UserService interface {
	Me(ctx context.Context) (ProfileResponse, error)
}
