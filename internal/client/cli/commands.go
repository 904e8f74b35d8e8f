package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authsession/internal/client/models"
	"github.com/dmitrijs2005/authsession/internal/client/tokencodec"
	"github.com/dmitrijs2005/authsession/internal/common"
	"github.com/dmitrijs2005/authsession/internal/logging"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errNotLoggedIn = errors.New("not logged in")

func (a *App) readSecret() (string, error) {
	pw, err := getPassword(a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

// Register prompts for a username, an e-mail and a password and creates the
// account. The session is not changed; the user logs in afterwards.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readSecret()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Password strength: %s\n", models.PasswordStrength(password))

	u, err := a.session.Register(ctx, models.RegistrationData{Username: username, Email: email, Password: password})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Account %s created for %s. You can log in now.\n", u.Username, u.Email)
	return nil
}

// Login prompts for credentials and signs in. The profile arrives in the
// background and is announced by the state subscription.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readSecret()
	if err != nil {
		return err
	}

	if _, err := a.session.Login(ctx, models.Credentials{Email: email, Password: password}); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout signs out on the server and always locally.
func (a *App) Logout(ctx context.Context) error {
	resp, err := a.session.Logout(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Server logout failed (%v); local session cleared\n", err)
		return nil
	}
	fmt.Fprintln(a.out, resp.Message)
	return nil
}

// WhoAmI reloads the profile from the server.
func (a *App) WhoAmI(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	p, err := a.session.RefreshProfile(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "id:       %s\nusername: %s\nrole:     %s\n", p.UserID, p.Username, p.Role)
	return nil
}

// Admin calls the admin-only endpoint.
func (a *App) Admin(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	resp, err := a.session.AdminData(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, resp.Message)
	return nil
}

// Status inspects the stored token locally. An unusable token is purged.
func (a *App) Status(ctx context.Context) error {
	if !a.session.IsAuthenticated(ctx) {
		fmt.Fprintln(a.out, "No valid session")
		return nil
	}

	tok, err := a.session.Token(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "token:      %s\n", logging.Redact(tok))
	if exp, err := tokencodec.DecodeExpiry(tok); err == nil {
		fmt.Fprintf(a.out, "expires at: %s\n", exp.Local().Format(time.RFC1123))
	}
	if s, ok := a.store.(savedAtReader); ok {
		if at, found, err := s.SavedAt(ctx); err == nil && found {
			fmt.Fprintf(a.out, "saved at:   %s\n", at.Local().Format(time.RFC1123))
		}
	}
	fmt.Fprintf(a.out, "store:      %s\n", a.config.StoreBackend)
	return nil
}
