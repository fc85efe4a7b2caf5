package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword хэширует пароль bcrypt'ом. Открытый пароль нигде не сохраняется
// и не логируется
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("не удалось создать хэш пароля: %w", err)
	}
	return string(hash), nil
}

// CheckPassword сверяет пароль с хэшем; сравнение внутри bcrypt устойчиво
// к тайминг-атакам
func CheckPassword(password string, passwordHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) == nil
}
