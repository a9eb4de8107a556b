package cli

import (
	"context"
	"errors"
	"os"

	"github.com/avasilenko/snapdiary/internal/client/client"
)

// Login authenticates against the server and falls back to the offline
// verifier when the server is unreachable. Offline login unlocks only the
// local cache; queued work still waits for connectivity.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		a.log.Error(ctx, "input error", "error", err)
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		a.log.Error(ctx, "input error", "error", err)
		return err
	}

	mode := ModeDisabled

	err = a.auth.Login(ctx, email, string(password))
	switch {
	case err == nil:
		printlnFn("Login successful")
		mode = ModeOnline

	case errors.Is(err, client.ErrUnavailable):
		printlnFn("Server unavailable, trying offline login...")
		if offErr := a.auth.LoginOffline(ctx, email, string(password)); offErr != nil {
			printlnFn("Offline login unsuccessful:", offErr.Error())
		} else {
			printlnFn("Offline login successful")
			mode = ModeOffline
		}

	default:
		printlnFn("Login unsuccessful:", err.Error())
	}

	if mode == ModeDisabled {
		return err
	}

	a.userName = email
	a.setMode(mode)
	a.afterLogin(ctx)
	return nil
}

// Register creates a new account and logs the user in on success.
func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		a.log.Error(ctx, "input error", "error", err)
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		a.log.Error(ctx, "input error", "error", err)
		return err
	}

	if err := a.auth.Register(ctx, email, string(password)); err != nil {
		printlnFn("Registration unsuccessful:", err.Error())
		return err
	}

	printlnFn("Success!")

	if err := a.auth.Login(ctx, email, string(password)); err != nil {
		return err
	}
	a.userName = email
	a.setMode(ModeOnline)
	a.afterLogin(ctx)
	return nil
}

// Logout drops the cached offline credentials and locks the session. The
// local diary and any queued offline work stay on disk.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		printlnFn("Logout error:", err.Error())
		return err
	}
	a.userName = ""
	a.setMode(ModeDisabled)
	printlnFn("Logged out")
	return nil
}
