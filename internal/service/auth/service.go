package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/niosa-ap/attendance-backend-go/internal/domain/auth"
	"github.com/niosa-ap/attendance-backend-go/internal/domain/user"
	"github.com/niosa-ap/attendance-backend-go/internal/pkg/jwt"
)

type AuthServiceImpl struct {
	user.Repository
	user.AdminRepository
	jwtService jwt.Service
}

func (a *AuthServiceImpl) issueTokens(subjectID, staffID, name string, isAdmin bool) (auth.TokenResponse, error) {
	accessToken, accessExp, err := a.jwtService.GenerateAccessToken(subjectID, staffID, name, isAdmin)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExp, err := a.jwtService.GenerateRefreshToken(subjectID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:           accessToken,
		AccessTokenExpiresIn:  accessExp,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: refreshExp,
	}, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	staff, err := a.Repository.GetByStaffID(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to look up staff member: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	if staff.IsSuspended() {
		return auth.TokenResponse{}, user.ErrUserSuspended
	}

	return a.issueTokens(staff.ID, staff.StaffID, staff.Name, false)
}

// AdminLogin implements auth.AuthService.
func (a *AuthServiceImpl) AdminLogin(ctx context.Context, req auth.AdminLoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	admin, err := a.AdminRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrAdminNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to look up admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return a.issueTokens(admin.ID, "", admin.Name, true)
}

// LoginWithGoogle implements auth.AuthService. The Google account must
// already exist in the admins table; sign-in never provisions one.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, email string) (auth.TokenResponse, error) {
	admin, err := a.AdminRepository.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrAdminNotFound) {
			return auth.TokenResponse{}, auth.ErrAdminNotRegistered
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to look up admin: %w", err)
	}

	return a.issueTokens(admin.ID, "", admin.Name, true)
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	subjectID, err := a.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	// The subject may be a staff member or an admin; try staff first.
	staff, err := a.Repository.GetByID(ctx, subjectID)
	if err == nil {
		if staff.IsSuspended() {
			return auth.AccessTokenResponse{}, user.ErrUserSuspended
		}
		token, exp, err := a.jwtService.GenerateAccessToken(staff.ID, staff.StaffID, staff.Name, false)
		if err != nil {
			return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
		}
		return auth.AccessTokenResponse{AccessToken: token, AccessTokenExpiresIn: exp}, nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to look up staff member: %w", err)
	}

	admin, err := a.AdminRepository.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, user.ErrAdminNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to look up admin: %w", err)
	}

	token, exp, err := a.jwtService.GenerateAccessToken(admin.ID, "", admin.Name, true)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return auth.AccessTokenResponse{AccessToken: token, AccessTokenExpiresIn: exp}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	a.jwtService.RevokeToken(refreshToken)
	return nil
}

func NewAuthService(users user.Repository, admins user.AdminRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		Repository:      users,
		AdminRepository: admins,
		jwtService:      jwtService,
	}
}
