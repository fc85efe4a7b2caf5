package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"jwt-auth-server/internal/model"
	"jwt-auth-server/internal/ports"
	"jwt-auth-server/internal/security"
	"jwt-auth-server/internal/util"

	"github.com/google/uuid"
)

type AuthenticationService struct {
	userRepository      ports.UserRepository
	jwtServiceInterface ports.JWTServiceInterface
}

func NewAuthenticationService(
	userRepository ports.UserRepository,
	jwtService ports.JWTServiceInterface,
) *AuthenticationService {
	return &AuthenticationService{
		userRepository,
		jwtService,
	}
}

// Register создает нового пользователя.
// Возвращает model.ErrUserExists, если email уже занят. Гонку двух
// одновременных регистраций с одним email разрешает уникальный индекс в БД
func (s *AuthenticationService) Register(ctx context.Context, email, password string) (*model.User, error) {
	_, err := s.userRepository.FindByEmail(ctx, email)
	if err == nil {
		return nil, model.ErrUserExists
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, fmt.Errorf("ошибка поиска пользователя: %w", err)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, util.LogError("не удалось создать хэш пароля", err)
	}

	user := &model.User{
		UUID:         uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
	}

	created, err := s.userRepository.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, model.ErrUserExists) {
			return nil, model.ErrUserExists
		}
		return nil, fmt.Errorf("ошибка создания пользователя: %w", err)
	}

	return created, nil
}

// Login проверяет пару email/пароль и выдает новую пару токенов.
// Новый refresh-токен записывается поверх предыдущего: вход с нового
// устройства инвалидирует старую сессию
func (s *AuthenticationService) Login(ctx context.Context, email, password string) (*model.TokensPair, error) {
	user, err := s.userRepository.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("ошибка поиска пользователя: %w", err)
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, model.ErrInvalidCredentials
	}

	tokens, err := s.jwtServiceInterface.GenerateAccessRefreshTokens(user.UUID)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации токенов: %w", err)
	}

	if err := s.userRepository.SetRefreshToken(ctx, user.UUID, tokens.RefreshToken); err != nil {
		return nil, fmt.Errorf("ошибка сохранения refresh токена: %w", err)
	}

	return tokens, nil
}

// Refresh обменивает предъявленный refresh-токен на новую пару токенов.
// Порядок проверок:
//  1. токен обязан пройти проверку подписи и срока действия;
//  2. пользователь из токена обязан существовать;
//  3. предъявленный токен обязан совпадать с активным токеном пользователя —
//     криптографически валидный, но уже вытесненный ротацией токен отклоняется;
//  4. запись нового токена выполняется атомарным compare-and-set: из
//     конкурентных ротаций одного токена выигрывает ровно одна.
//
// Любой отказ возвращается как model.ErrTokenRejected без уточнения причины
func (s *AuthenticationService) Refresh(ctx context.Context, refreshToken string) (*model.TokensPair, error) {
	if refreshToken == "" {
		return nil, model.ErrTokenRejected
	}

	claims, err := s.jwtServiceInterface.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, model.ErrTokenRejected
	}

	user, err := s.userRepository.FindByUUID(ctx, claims.UserUUID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrTokenRejected
		}
		return nil, fmt.Errorf("ошибка поиска пользователя: %w", err)
	}

	// повтор уже вытесненного токена: легитимная сессия успела ротироваться дальше
	if !user.RefreshToken.Valid || user.RefreshToken.String != refreshToken {
		log.Printf("пользователь %s: предъявлен неактивный refresh токен", user.UUID)
		return nil, model.ErrTokenRejected
	}

	tokens, err := s.jwtServiceInterface.GenerateAccessRefreshTokens(user.UUID)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации токенов: %w", err)
	}

	err = s.userRepository.RotateRefreshToken(ctx, user.UUID, refreshToken, tokens.RefreshToken)
	if err != nil {
		if errors.Is(err, model.ErrTokenRejected) {
			// проигрыш гонки конкурентной ротации
			return nil, model.ErrTokenRejected
		}
		return nil, fmt.Errorf("ошибка ротации refresh токена: %w", err)
	}

	return tokens, nil
}

// Logout сбрасывает активный refresh-токен пользователя, если предъявленный
// cookie-токен валиден. Невалидный или отсутствующий токен не считается
// ошибкой: сессии и так нет, чистить нечего
func (s *AuthenticationService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	claims, err := s.jwtServiceInterface.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil
	}

	if err := s.userRepository.ClearRefreshToken(ctx, claims.UserUUID); err != nil {
		return fmt.Errorf("не удалось сбросить refresh токен: %w", err)
	}

	return nil
}
