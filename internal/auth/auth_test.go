package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/idcard-api/internal/models"
)

func TestHashPasswordNeverStoresPlaintext(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse", hash)
	require.NoError(t, VerifyPassword(hash, "correct horse"))
	require.ErrorIs(t, VerifyPassword(hash, "wrong horse"), ErrPasswordMismatch)

	_, err = HashPassword("short")
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestTokenManagerRoundTrip(t *testing.T) {
	manager := NewTokenManager("secret", time.Hour, "idcard")
	schoolID := "0b8f7a9e-4e41-4c83-9d55-1d9d77d2c0aa"

	token, expiresAt, err := manager.Issue(models.User{ID: "user-1", Role: models.RoleSchoolAdmin, SchoolID: &schoolID})
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := manager.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, models.RoleSchoolAdmin, claims.Role)
	require.Equal(t, schoolID, claims.SchoolID)
}

func TestTokenManagerRejectsTamperedAndExpired(t *testing.T) {
	manager := NewTokenManager("secret", time.Hour, "idcard")
	token, _, err := manager.Issue(models.User{ID: "user-1", Role: models.RoleSuperAdmin})
	require.NoError(t, err)

	_, err = NewTokenManager("other", time.Hour, "idcard").Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	manager.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = manager.Parse(token)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManagerRejectsUnknownRole(t *testing.T) {
	manager := NewTokenManager("secret", time.Hour, "idcard")
	claims := Claims{
		UserID: "user-1",
		Role:   models.UserRole("guest"),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = manager.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
