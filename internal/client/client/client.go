package client

import (
	"context"

	"github.com/dmitrijs2005/authsession/internal/client/models"
)

// Client is the remote authentication API as seen by the session manager.
type Client interface {
	Register(ctx context.Context, data models.RegistrationData) (*models.UserSummary, error)
	Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error)
	Me(ctx context.Context) (*models.Profile, error)
	Admin(ctx context.Context) (*models.AdminResponse, error)
	Logout(ctx context.Context) (*models.LogoutResponse, error)
}
