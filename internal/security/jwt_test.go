package security_test

import (
	"testing"

	"jwt-auth-server/config"
	"jwt-auth-server/internal/model"
	"jwt-auth-server/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *security.JWTService {
	return security.NewJWTService(&config.JWTConfig{
		AccessSecretKey:  "access-secret-for-tests",
		RefreshSecretKey: "refresh-secret-for-tests",
		AccessTokenTTL:   "15m",
		RefreshTokenTTL:  "168h",
	})
}

// Проверки подписанных токенов: выпуск, round-trip, сроки, подмена

func TestGenerateAccessRefreshTokens_RoundTrip(t *testing.T) {
	svc := newTestJWTService()
	userUUID := "b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"

	tokens, err := svc.GenerateAccessRefreshTokens(userUUID)
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)
	assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)

	accessClaims, err := svc.ValidateAccessToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userUUID, accessClaims.UserUUID)

	refreshClaims, err := svc.ValidateRefreshToken(tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userUUID, refreshClaims.UserUUID)
}

// Токен одного вида не должен проходить проверку секретом другого вида
func TestValidate_CrossKindSecretsRejected(t *testing.T) {
	svc := newTestJWTService()

	tokens, err := svc.GenerateAccessRefreshTokens("user-1")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(tokens.RefreshToken)
	assert.ErrorIs(t, err, model.ErrTokenRejected)

	_, err = svc.ValidateRefreshToken(tokens.AccessToken)
	assert.ErrorIs(t, err, model.ErrTokenRejected)
}

func TestValidate_ExpiredTokenRejected(t *testing.T) {
	expired := security.NewJWTService(&config.JWTConfig{
		AccessSecretKey:  "access-secret-for-tests",
		RefreshSecretKey: "refresh-secret-for-tests",
		AccessTokenTTL:   "-1m",
		RefreshTokenTTL:  "-1m",
	})

	tokens, err := expired.GenerateAccessRefreshTokens("user-1")
	require.NoError(t, err)

	_, err = expired.ValidateAccessToken(tokens.AccessToken)
	assert.ErrorIs(t, err, model.ErrTokenRejected)

	_, err = expired.ValidateRefreshToken(tokens.RefreshToken)
	assert.ErrorIs(t, err, model.ErrTokenRejected)
}

func TestValidate_TamperedSignatureRejected(t *testing.T) {
	svc := newTestJWTService()

	tokens, err := svc.GenerateAccessRefreshTokens("user-1")
	require.NoError(t, err)

	// портим один байт в подписи
	tampered := []byte(tokens.AccessToken)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	_, err = svc.ValidateAccessToken(string(tampered))
	assert.ErrorIs(t, err, model.ErrTokenRejected)
}

func TestValidate_MalformedTokenRejected(t *testing.T) {
	svc := newTestJWTService()

	for _, token := range []string{"", "мусор", "a.b", "a.b.c"} {
		_, err := svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, model.ErrTokenRejected, "токен %q", token)
	}
}

func TestGenerate_InvalidTTL(t *testing.T) {
	broken := security.NewJWTService(&config.JWTConfig{
		AccessSecretKey:  "access-secret-for-tests",
		RefreshSecretKey: "refresh-secret-for-tests",
		AccessTokenTTL:   "пятнадцать минут",
		RefreshTokenTTL:  "168h",
	})

	_, err := broken.GenerateAccessRefreshTokens("user-1")
	assert.Error(t, err)
}
