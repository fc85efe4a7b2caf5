package service

import (
	"context"
	"fmt"
	"log"

	"jwt-auth-server/internal/model"
	"jwt-auth-server/internal/ports"
)

type UserService struct {
	userRepository  ports.UserRepository
	cacheRepository ports.CacheRepository
}

func NewUserService(
	userRepository ports.UserRepository,
	cacheRepository ports.CacheRepository,
) *UserService {
	return &UserService{
		userRepository:  userRepository,
		cacheRepository: cacheRepository,
	}
}

// GetCurrentUser возвращает профиль пользователя по UUID из access токена.
// Читает сквозь Redis-кэш: промах идет в БД и прогревает кэш.
// Недоступность кэша не фатальна, запрос уходит в БД напрямую
func (s *UserService) GetCurrentUser(ctx context.Context, uuid string) (*model.User, error) {
	cached, err := s.cacheRepository.GetUser(ctx, uuid)
	if err != nil {
		log.Printf("[UserService] кэш недоступен, чтение из БД: %v", err)
	}
	if cached != nil {
		return cached, nil
	}

	user, err := s.userRepository.FindByUUID(ctx, uuid)
	if err != nil {
		return nil, fmt.Errorf("[UserService] %w", err)
	}

	if err := s.cacheRepository.SetUser(ctx, user); err != nil {
		log.Printf("[UserService] не удалось прогреть кэш: %v", err)
	}

	return user, nil
}
