package users

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/authsession/internal/server/auth"
	"github.com/dmitrijs2005/authsession/internal/server/config"
	"github.com/dmitrijs2005/authsession/internal/server/revocations"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T, admins ...string) *Service {
	t.Helper()
	cfg := &config.Config{BcryptCost: bcrypt.MinCost, AdminEmails: admins}
	return NewService(NewMemoryRepository(), revocations.NewMemoryRepository(), auth.NewTokenManager([]byte("k"), time.Hour), cfg)
}

func TestRegister_AssignsRoles(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, "root@example.com")

	u, err := s.Register(ctx, RegisterInput{Username: "root", Email: "Root@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, u.Role)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	u, err = s.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, RoleUser, u.Role)
}

func TestRegister_Validation(t *testing.T) {
	s := newTestService(t)

	_, err := s.Register(context.Background(), RegisterInput{Username: "ab", Email: "nope", Password: "123"})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "username")
	assert.Contains(t, verrs, "email")
	assert.Contains(t, verrs, "password")
}

func TestRegister_Duplicates(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	_, err := s.Register(ctx, RegisterInput{Username: "alice", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = s.Register(ctx, RegisterInput{Username: "other", Email: "A@example.com", Password: "secret1"})
	require.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = s.Register(ctx, RegisterInput{Username: "ALICE", Email: "b@example.com", Password: "secret1"})
	require.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestLoginAuthenticateLogout(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	_, err := s.Register(ctx, RegisterInput{Username: "alice", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = s.Login(ctx, "a@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login(ctx, "ghost@example.com", "secret1")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	tok, err := s.Login(ctx, "a@example.com", "secret1")
	require.NoError(t, err)

	u, claims, err := s.Authenticate(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, u.ID, claims.Subject)

	require.NoError(t, s.Logout(ctx, claims))
	_, _, err = s.Authenticate(ctx, tok)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthenticate_Garbage(t *testing.T) {
	_, _, err := newTestService(t).Authenticate(context.Background(), "h.eyJleHAiOjk5OTk5OTk5OTl9.s")
	require.ErrorIs(t, err, ErrUnauthorized)
}
