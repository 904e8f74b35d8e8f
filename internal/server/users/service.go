package users

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/authsession/internal/server/auth"
	"github.com/dmitrijs2005/authsession/internal/server/config"
	"github.com/dmitrijs2005/authsession/internal/server/revocations"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

// RegisterInput is the sign-up payload.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required, validation.Length(6, 0)),
	)
}

type Service struct {
	repo        Repository
	revocations revocations.Repository
	tokens      *auth.TokenManager
	bcryptCost  int
	adminEmails []string
}

func NewService(repo Repository, rev revocations.Repository, tokens *auth.TokenManager, cfg *config.Config) *Service {
	return &Service{
		repo:        repo,
		revocations: rev,
		tokens:      tokens,
		bcryptCost:  cfg.BcryptCost,
		adminEmails: cfg.AdminEmails,
	}
}

func (s *Service) roleFor(email string) string {
	if slices.Contains(s.adminEmails, strings.ToLower(email)) {
		return RoleAdmin
	}
	return RoleUser
}

// Register validates in and stores a new user. Validation failures are
// returned as validation.Errors.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Create(ctx, &User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         s.roleFor(in.Email),
	})
}

// Login checks the credentials and issues an access token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if auth.ComparePassword(user.PasswordHash, password) != nil {
		return "", ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Authenticate resolves a bearer token to its user. Expired, revoked or
// unknown tokens yield ErrUnauthorized.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, *auth.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if revoked {
		return nil, nil, fmt.Errorf("%w: token revoked", ErrUnauthorized)
	}

	user, err := s.repo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: unknown user", ErrUnauthorized)
		}
		return nil, nil, err
	}
	return user, claims, nil
}

// Logout revokes the token described by claims.
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	return s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}
