package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/cre8tlystudio/adminctl/internal/client/models"
)

// getSimpleText, getPassword and getSecret are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getSecret     = GetSecret
)

// Login prompts for email and password and, when the account has 2FA
// enabled, for the one-time code. The session is persisted only after the
// last factor is accepted.
func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	res, err := a.auth.Login(ctx, email, password)
	if err != nil {
		a.logger.Info(ctx, "login failed", "email", email, "error", err)
		return err
	}

	if res.TwoFARequired {
		code, err := getSecret(a.out, "Enter 2FA code: ")
		if err != nil {
			return err
		}
		defer wipe(code)

		profile, err := a.auth.VerifyTwoFA(ctx, string(code), res.TwoFAToken)
		if err != nil {
			a.logger.Info(ctx, "2FA verification failed", "error", err)
			return err
		}
		a.takeExpired()
		fmt.Fprintf(a.out, "2FA verified. Logged in as %s.\n", profile.Role)
		return nil
	}

	a.takeExpired()
	fmt.Fprintf(a.out, "Login successful. Logged in as %s (%s).\n", res.User.Email, res.User.Role)
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) Status(_ context.Context, _ []string) error {
	st := a.auth.Status()

	w := newTable(a.out)
	if !st.LoggedIn {
		fmt.Fprintln(w, "Session:\tlogged out")
	} else {
		fmt.Fprintln(w, "Session:\tlogged in")
		fmt.Fprintf(w, "Role:\t%s\n", orDash(st.Profile.Role))
		fmt.Fprintf(w, "Email:\t%s\n", orDash(st.Profile.Email))
		fmt.Fprintf(w, "Admin ID:\t%s\n", orDash(st.Profile.AdminID))
		if !st.ExpiresAt.IsZero() {
			state := "valid"
			if st.Expired {
				state = "expired, refreshed on next request"
			}
			fmt.Fprintf(w, "Access token:\t%s until %s\n", state, st.ExpiresAt.Local().Format(time.DateTime))
		}
	}
	fmt.Fprintf(w, "API:\t%s\n", a.config.BaseURL)
	if m := a.Mode(); m != "" {
		fmt.Fprintf(w, "Mode:\t%s\n", m)
	}
	return w.Flush()
}

func (a *App) Me(ctx context.Context, _ []string) error {
	me, err := a.auth.Me(ctx)
	if err != nil {
		return err
	}
	w := newTable(a.out)
	fmt.Fprintf(w, "ID:\t%s\n", me.ID)
	fmt.Fprintf(w, "Email:\t%s\n", orDash(me.Email))
	fmt.Fprintf(w, "Name:\t%s\n", orDash(me.Name))
	fmt.Fprintf(w, "Role:\t%s\n", orDash(me.Role))
	fmt.Fprintf(w, "Profile image:\t%s\n", orDash(me.ProfileImage))
	return w.Flush()
}

func (a *App) EnableTwoFA(ctx context.Context, _ []string) error {
	qr, err := a.auth.EnableTwoFA(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Scan this QR code with your authenticator app:")
	fmt.Fprintln(a.out, qr)
	return nil
}

// UpdateAccount prompts for a new email and, optionally, a password change.
// Empty answers keep the current value.
func (a *App) UpdateAccount(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "New email (empty to keep)", a.out)
	if err != nil {
		return err
	}

	current, err := getSecret(a.out, "Current password: ")
	if err != nil {
		return err
	}
	defer wipe(current)

	next, err := getSecret(a.out, "New password (empty to keep): ")
	if err != nil {
		return err
	}
	defer wipe(next)

	req := models.UpdateAccountRequest{
		Email:           email,
		CurrentPassword: string(current),
		NewPassword:     string(next),
	}
	if err := a.auth.UpdateAccount(ctx, req); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Settings updated successfully.")
	return nil
}
