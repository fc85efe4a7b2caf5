package ports

import (
	"context"
	"jwt-auth-server/internal/model"
)

type AuthenticationService interface {
	Register(ctx context.Context, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.TokensPair, error)
	Refresh(ctx context.Context, refreshToken string) (*model.TokensPair, error)
	Logout(ctx context.Context, refreshToken string) error
}
