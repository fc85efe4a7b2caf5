package ports

import (
	"jwt-auth-server/internal/model"
	"jwt-auth-server/internal/security"
)

type JWTServiceInterface interface {
	GenerateAccessRefreshTokens(userUUID string) (*model.TokensPair, error)
	ValidateAccessToken(tokenString string) (*security.Claims, error)
	ValidateRefreshToken(tokenString string) (*security.Claims, error)
}
