package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewAuthService("secret")

	token, err := svc.GenerateJWT("ops", time.Hour)
	require.NoError(t, err)

	subject, err := svc.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "ops", subject)
}

func TestJWTRejectsForeignSecret(t *testing.T) {
	token, err := NewAuthService("other").GenerateJWT("ops", time.Hour)
	require.NoError(t, err)

	_, err = NewAuthService("secret").ValidateJWT(token)
	assert.Error(t, err)
}

func TestJWTRejectsExpired(t *testing.T) {
	svc := NewAuthService("secret")
	token, err := svc.GenerateJWT("ops", -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateJWT(token)
	assert.Error(t, err)
}

func TestJWTRequiresSecret(t *testing.T) {
	svc := NewAuthService("")

	_, err := svc.GenerateJWT("ops", time.Hour)
	assert.Error(t, err)

	_, err = svc.ValidateJWT("anything")
	assert.Error(t, err)
}
