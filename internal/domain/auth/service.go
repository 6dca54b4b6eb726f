package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	AdminLogin(ctx context.Context, req AdminLoginRequest) (TokenResponse, error)
	LoginWithGoogle(ctx context.Context, email string) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}
