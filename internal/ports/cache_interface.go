package ports

import (
	"context"
	"jwt-auth-server/internal/model"
)

// CacheRepository : Redis слой
type CacheRepository interface {
	SetUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, uuid string) (*model.User, error)
	DeleteUser(ctx context.Context, uuid string) error
}
