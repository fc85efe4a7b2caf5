package security

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"jwt-auth-server/config"
	"jwt-auth-server/internal/model"
	"jwt-auth-server/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

type Claims struct {
	UserUUID string `json:"user_uuid"`
	jwt.RegisteredClaims
}

// JWTService выпускает и проверяет подписанные токены двух видов.
// Access и refresh токены подписываются разными секретами: проверка токена
// одного вида секретом другого всегда завершается отказом
type JWTService struct {
	*config.JWTConfig
}

func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{cfg}
}

// GenerateAccessRefreshTokens выпускает новую пару токенов для пользователя.
// Ничего не сохраняет: запись refresh-токена в хранилище — обязанность вызывающего
func (service *JWTService) GenerateAccessRefreshTokens(userUUID string) (*model.TokensPair, error) {
	accessToken, err := service.signToken(userUUID, service.AccessSecretKey, service.AccessTokenTTL)
	if err != nil {
		return nil, util.LogError("ошибка выпуска access токена", err)
	}

	refreshToken, err := service.signToken(userUUID, service.RefreshSecretKey, service.RefreshTokenTTL)
	if err != nil {
		return nil, util.LogError("ошибка выпуска refresh токена", err)
	}

	return &model.TokensPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (service *JWTService) signToken(userUUID string, secretKey string, ttl string) (string, error) {
	timeDuration, err := time.ParseDuration(ttl)
	if err != nil {
		return "", util.LogError("ошибка парсинга TTL токена", err)
	}

	// jti делает каждый выпущенный токен уникальным: две ротации в одну
	// секунду обязаны дать разные токены
	claims := Claims{
		UserUUID: userUUID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(timeDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "jwt-auth-server",
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := jwtToken.SignedString([]byte(secretKey))
	if err != nil {
		return "", util.LogError("ошибка подписи токена", err)
	}

	return signed, nil
}

// ValidateAccessToken проверяет подпись и срок действия access токена
func (service *JWTService) ValidateAccessToken(jwtTokenStr string) (*Claims, error) {
	return service.validateJWT(jwtTokenStr, []byte(service.AccessSecretKey))
}

// ValidateRefreshToken проверяет подпись и срок действия refresh токена.
// Сверку с активным токеном пользователя выполняет сервис аутентификации
func (service *JWTService) ValidateRefreshToken(jwtTokenStr string) (*Claims, error) {
	return service.validateJWT(jwtTokenStr, []byte(service.RefreshSecretKey))
}

// validateJWT сводит любую причину отказа (битая подпись, истекший срок, чужой
// секрет, мусор вместо токена) к model.ErrTokenRejected — наружу причина не уходит,
// детали остаются в логе
func (service *JWTService) validateJWT(jwtTokenStr string, secretKey []byte) (*Claims, error) {
	var claims = &Claims{}

	jwtToken, err := jwt.ParseWithClaims(jwtTokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("неверный способ подписи токена: %v", token.Header["alg"])
		}
		return secretKey, nil
	})

	if err != nil || jwtToken.Valid == false {
		util.LogError("невалидный токен", err)
		return nil, model.ErrTokenRejected
	}

	return claims, nil
}

// JWTMiddleware пропускает дальше только запросы с валидным access токеном
// в заголовке Authorization. Refresh cookie здесь не читается: access токен
// передается только через Bearer
func JWTMiddleware(jwtService *JWTService) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(jwtService, next))
	}
}

func handleAuthentication(jwtService *JWTService, next http.Handler) func(writer http.ResponseWriter, request *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		authorizationHeader := request.Header.Get("Authorization")
		if !strings.HasPrefix(authorizationHeader, "Bearer ") {
			util.HandleError(writer, "необходимо авторизоваться", http.StatusUnauthorized)
			return
		}

		token := strings.TrimPrefix(authorizationHeader, "Bearer ")

		claims, err := jwtService.ValidateAccessToken(token)
		if err != nil {
			util.HandleError(writer, "невалидный токен", http.StatusUnauthorized)
			return
		}

		req := request.WithContext(context.WithValue(request.Context(), UserContextKey, claims))
		next.ServeHTTP(writer, req)
	}
}

func GetClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(UserContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, fmt.Errorf("пользователь не авторизован")
	}
	return claims, nil
}
