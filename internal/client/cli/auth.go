package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ayadas/cozyon-cli/internal/client/api"
	"github.com/ayadas/cozyon-cli/internal/client/storage"
	"github.com/ayadas/cozyon-cli/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts the user for a name, email and password and attempts to
// create a new account via the gateway. A successful registration is also a
// login: the returned token and user are persisted and the session becomes
// live.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	result, err := a.api.Register(ctx, name, email, string(password))
	if err != nil {
		a.reportAuthError(ctx, err)
		return err
	}

	if err := a.persistAuth(ctx, result); err != nil {
		return err
	}
	a.session.HandleAuthSuccess(ctx)

	fmt.Fprintln(a.out, "Welcome, "+result.User.Name+"!")
	return nil
}

// Login prompts the user for credentials and tries to authenticate. On
// success the token and user are persisted, the session transitions to
// logged-in, and the cart is refreshed from the server.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	result, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		a.reportAuthError(ctx, err)
		return err
	}

	if err := a.persistAuth(ctx, result); err != nil {
		return err
	}
	a.session.HandleAuthSuccess(ctx)

	fmt.Fprintln(a.out, "Logged in as "+result.User.Name)
	return nil
}

// persistAuth writes the token and user to the session store so the bearer
// transport and the next startup can see them.
func (a *App) persistAuth(ctx context.Context, result *api.AuthResult) error {
	if err := a.store.Set(ctx, storage.KeyAuthToken, []byte(result.Token)); err != nil {
		return err
	}
	raw, err := json.Marshal(result.User)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, storage.KeyUser, raw)
}

func (a *App) reportAuthError(ctx context.Context, err error) {
	switch {
	case errors.Is(err, api.ErrUnavailable):
		fmt.Fprintln(a.out, "Server unavailable, please try again later.")
	default:
		fmt.Fprintln(a.out, "Authentication failed:", err.Error())
	}
	a.log.Debug(ctx, "auth attempt failed", "error", err)
}

// Logout clears the in-memory session and removes the persisted token, user
// and cart snapshot.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// promptLogin runs after a gated action raised the auth prompt: it offers
// an immediate login and, either way, dismisses the prompt.
func (a *App) promptLogin(ctx context.Context) error {
	defer a.session.DismissAuthPrompt()

	ok, err := GetConfirm(a.reader, "You need to be logged in. Log in now?", a.out)
	if err != nil || !ok {
		return err
	}
	return a.Login(ctx)
}
