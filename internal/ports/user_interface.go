package ports

import (
	"context"
	"jwt-auth-server/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	FindByUUID(ctx context.Context, uuid string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	SetRefreshToken(ctx context.Context, uuid string, refreshToken string) error
	RotateRefreshToken(ctx context.Context, uuid string, presentedToken string, nextToken string) error
	ClearRefreshToken(ctx context.Context, uuid string) error
}

type UserService interface {
	GetCurrentUser(ctx context.Context, uuid string) (*model.User, error)
}
