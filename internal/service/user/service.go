package user

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"

	"github.com/niosa-ap/attendance-backend-go/internal/domain/user"
)

type UserServiceImpl struct {
	user.Repository
}

// Me implements user.UserService.
func (u *UserServiceImpl) Me(ctx context.Context) (user.ProfileResponse, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return user.ProfileResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	staffID, ok := claims["staff_id"].(string)
	if !ok || staffID == "" {
		return user.ProfileResponse{}, fmt.Errorf("staff_id claim is missing or invalid")
	}

	staff, err := u.Repository.GetByStaffID(ctx, staffID)
	if err != nil {
		return user.ProfileResponse{}, err
	}

	return user.ToProfileResponse(staff), nil
}

func NewUserService(repo user.Repository) user.UserService {
	return &UserServiceImpl{Repository: repo}
}
