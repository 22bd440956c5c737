package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"bookoracle/pkg/api"
	"bookoracle/pkg/session"
)

// readPassword reads a password with terminal echo disabled. Falls back to
// plain line input when stdin is not a terminal (tests, pipes).
func (a *App) readPassword(label string) string {
	fmt.Fprint(a.out, label)
	if term.IsTerminal(int(syscall.Stdin)) {
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(a.out)
		if err == nil {
			return strings.TrimSpace(string(raw))
		}
	}
	if !a.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(a.scanner.Text())
}

func (a *App) cmdLogin(ctx context.Context) {
	email := a.prompt("Email: ")
	password := a.readPassword("Password: ")
	user, err := a.client.Login(ctx, email, password)
	if err != nil {
		a.fail(err)
		return
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", user.Email)
}

func (a *App) cmdRegister(ctx context.Context) {
	params := api.RegisterParams{
		Email:     a.prompt("Email: "),
		Username:  a.prompt("Username: "),
		FirstName: a.prompt("First name: "),
		LastName:  a.prompt("Last name: "),
	}
	params.Password = a.readPassword("Password: ")
	user, err := a.client.Register(ctx, params)
	if err != nil {
		a.fail(err)
		return
	}
	fmt.Fprintf(a.out, "Registered and logged in as %s\n", user.Email)
}

func (a *App) cmdLogout(ctx context.Context) {
	if err := a.client.Logout(ctx); err != nil {
		a.fail(err)
		return
	}
	fmt.Fprintln(a.out, "Logged out.")
}

func (a *App) cmdWhoami(ctx context.Context) {
	user, err := a.client.CurrentUser(ctx)
	if err != nil {
		a.fail(err)
		return
	}
	role := "reader"
	if user.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(a.out, "%s %s <%s> (%s), %d saved books\n",
		user.FirstName, user.LastName, user.Email, role, len(user.SavedBooks))
}

// cmdStatus reports on the locally stored session without a network call.
func (a *App) cmdStatus(ctx context.Context) {
	sess, err := a.sessions.Current(ctx)
	if errors.Is(err, session.ErrNoSession) {
		fmt.Fprintln(a.out, "Not logged in.")
		return
	}
	if err != nil {
		a.fail(err)
		return
	}
	state := "valid"
	if session.AccessTokenExpired(sess.AccessToken, 30*time.Second) {
		state = "expired (will refresh on next request)"
	}
	fmt.Fprintf(a.out, "Logged in as %s; access token %s\n", sess.User.Email, state)
}

func (a *App) cmdResetPassword(ctx context.Context) {
	email := a.prompt("Email: ")
	if err := a.client.ForgotPassword(ctx, email); err != nil {
		a.fail(err)
		return
	}
	fmt.Fprintln(a.out, "A one-time code was sent to your email.")
	otp := a.prompt("Code: ")
	otpID, err := a.client.VerifyOTP(ctx, email, otp)
	if err != nil {
		a.fail(err)
		return
	}
	password := a.readPassword("New password: ")
	if err := a.client.ResetPassword(ctx, email, otpID, password); err != nil {
		a.fail(err)
		return
	}
	fmt.Fprintln(a.out, "Password updated. You can now log in.")
}
