package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"parkingspots/internal/repository"
)

func newTestAuth(t *testing.T) *adminAuthService {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := repository.NewStaticAdminRepository("ops@example.com", string(hash))
	return NewAdminAuthService(repo, "test-secret", time.Hour).(*adminAuthService)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc := newTestAuth(t)

	token, err := svc.Login("OPS@example.com", "hunter2")
	require.NoError(t, err)
	assert.NoError(t, svc.VerifyToken(token))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuth(t)

	_, err := svc.Login("ops@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login("someone@example.com", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyTokenRejectsExpiredAndForeign(t *testing.T) {
	svc := newTestAuth(t)
	token, err := svc.Login("ops@example.com", "hunter2")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	assert.ErrorIs(t, svc.VerifyToken(token), ErrInvalidToken)

	other := NewAdminAuthService(repository.NewStaticAdminRepository("", ""), "other-secret", time.Hour)
	svc.now = time.Now
	assert.ErrorIs(t, other.VerifyToken(token), ErrInvalidToken)
	assert.ErrorIs(t, svc.VerifyToken("not-a-jwt"), ErrInvalidToken)
}
