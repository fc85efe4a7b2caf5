package repository

import (
	"context"
	"database/sql"
	"errors"

	"jwt-auth-server/config"
	"jwt-auth-server/internal/model"
	"jwt-auth-server/internal/util"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type UserRepository struct {
	*config.Database
}

func NewUserRepository(database *config.Database) *UserRepository {
	return &UserRepository{database}
}

// CreateUser : сохраняет нового пользователя; refresh_token у нового
// пользователя всегда пустой
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
	INSERT INTO users (uuid, email, password_hash)
	VALUES ($1, $2, $3)
	RETURNING uuid, email, created_at
	`

	createdUser := &model.User{}
	err := r.DB.QueryRowxContext(ctx, query, user.UUID, user.Email, user.PasswordHash).
		Scan(&createdUser.UUID, &createdUser.Email, &createdUser.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, model.ErrUserExists
		}
		return nil, util.LogError("[UserRepo] ошибка вставки данных в БД", err)
	}

	return createdUser, nil
}

// FindByUUID : ищет пользователя по UUID
func (r *UserRepository) FindByUUID(ctx context.Context, uuid string) (*model.User, error) {
	query := `SELECT uuid, email, password_hash, refresh_token, created_at FROM users WHERE uuid = $1`
	var user model.User
	err := r.DB.GetContext(ctx, &user, query, uuid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, util.LogError("[UserRepo] не удалось найти пользователя в БД", err)
	}
	return &user, nil
}

// FindByEmail : ищет пользователя по email (точное совпадение, с учетом регистра)
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT uuid, email, password_hash, refresh_token, created_at FROM users WHERE email = $1`
	var user model.User
	err := r.DB.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, util.LogError("[UserRepo] не удалось найти пользователя по email", err)
	}
	return &user, nil
}

// SetRefreshToken : записывает новый активный refresh-токен, затирая предыдущий.
// Используется при входе: старый токен инвалидируется безусловно
func (r *UserRepository) SetRefreshToken(ctx context.Context, uuid string, refreshToken string) error {
	query := `UPDATE users SET refresh_token = $2 WHERE uuid = $1`

	result, err := r.DB.ExecContext(ctx, query, uuid, refreshToken)
	if err != nil {
		return util.LogError("[UserRepo] не удалось сохранить refresh токен", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[UserRepo] не удалось проверить, сохранен ли токен", err)
	}
	if rowsAffected == 0 {
		return model.ErrUserNotFound
	}

	return nil
}

// RotateRefreshToken : атомарно заменяет presentedToken на nextToken.
// Сравнение и запись выполняются одним UPDATE, поэтому из нескольких
// конкурентных ротаций с одним и тем же токеном выигрывает ровно одна.
// Нулевое число затронутых строк означает либо повтор уже вытесненного
// токена, либо проигрыш гонки — оба случая равнозначны отказу
func (r *UserRepository) RotateRefreshToken(ctx context.Context, uuid string, presentedToken string, nextToken string) error {
	query := `UPDATE users SET refresh_token = $3 WHERE uuid = $1 AND refresh_token = $2`

	result, err := r.DB.ExecContext(ctx, query, uuid, presentedToken, nextToken)
	if err != nil {
		return util.LogError("[UserRepo] не удалось обновить refresh токен", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[UserRepo] не удалось проверить, обновлен ли токен", err)
	}
	if rowsAffected == 0 {
		return model.ErrTokenRejected
	}

	return nil
}

// ClearRefreshToken : сбрасывает активный refresh-токен при выходе из системы
func (r *UserRepository) ClearRefreshToken(ctx context.Context, uuid string) error {
	query := `UPDATE users SET refresh_token = NULL WHERE uuid = $1`

	_, err := r.DB.ExecContext(ctx, query, uuid)
	if err != nil {
		return util.LogError("[UserRepo] не удалось сбросить refresh токен", err)
	}

	return nil
}
