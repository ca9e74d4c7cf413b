package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cre8tlystudio/adminctl/internal/client/client"
	"github.com/cre8tlystudio/adminctl/internal/client/models"
	"github.com/cre8tlystudio/adminctl/internal/client/session"
)

const (
	loginPath       = "/auth/admin/login"
	mePath          = "/auth/me"
	updateAdminPath = "/auth/admin/update"
	enableTwoFAPath = "/auth/admin/enable-2fa"
)

var (
	ErrInvalidLoginResponse = errors.New("invalid login response")
	ErrNoAccessToken        = errors.New("no access token received")
	ErrInvalidCredentials   = errors.New("invalid login credentials")
	ErrInvalidTwoFACode     = errors.New("invalid 2FA code")
	ErrAccountLocked        = errors.New("account locked")
)

// AuthError is a rejected login or 2FA attempt. Message is what the user
// should see; Kind is one of the sentinels above or client.ErrRateLimited.
type AuthError struct {
	Kind    error
	Message string
}

func (e *AuthError) Error() string { return e.Message }
func (e *AuthError) Unwrap() error { return e.Kind }

// SessionStore is the part of the session manager the services use.
type SessionStore interface {
	Establish(ctx context.Context, cred session.Credential, profile session.Profile) error
	Logout(ctx context.Context) error
	Profile() session.Profile
	LoggedIn() bool
	Claims() (session.Claims, error)
}

// Status describes the local session.
type Status struct {
	LoggedIn  bool
	Profile   session.Profile
	Subject   string
	ExpiresAt time.Time
	Expired   bool
}

// AuthService defines the admin authentication flow.
//
// Contract:
//   - Login: first factor. When the backend asks for a second factor nothing
//     is persisted and the result carries the temporary 2FA token.
//   - VerifyTwoFA: second factor; persists the session on success.
//   - Logout: drops the local session.
//   - Me, UpdateAccount, EnableTwoFA: account settings of the logged-in admin.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) (models.LoginResult, error)
	VerifyTwoFA(ctx context.Context, code, twofaToken string) (session.Profile, error)
	Logout(ctx context.Context) error
	Status() Status
	Me(ctx context.Context) (models.Me, error)
	UpdateAccount(ctx context.Context, req models.UpdateAccountRequest) error
	EnableTwoFA(ctx context.Context) (string, error)
}

type authService struct {
	client  client.Client
	session SessionStore
	now     func() time.Time
}

func NewAuthService(c client.Client, s SessionStore) AuthService {
	return &authService{client: c, session: s, now: time.Now}
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (models.LoginResult, error) {
	var resp models.LoginResponse
	err := a.client.PostJSON(ctx, loginPath, map[string]string{
		"email":    email,
		"password": string(password),
	}, &resp)
	if err != nil {
		return models.LoginResult{}, authFailure(err, ErrInvalidCredentials, "Invalid login credentials")
	}

	if resp.TwoFARequired {
		return models.LoginResult{TwoFARequired: true, TwoFAToken: resp.TwoFAToken}, nil
	}

	user := resp.Account()
	if user == nil {
		return models.LoginResult{}, ErrInvalidLoginResponse
	}
	if resp.AccessToken == "" {
		return models.LoginResult{}, ErrNoAccessToken
	}

	err = a.session.Establish(ctx,
		session.Credential{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken},
		session.Profile{Role: user.Role, Email: user.Email},
	)
	if err != nil {
		return models.LoginResult{}, fmt.Errorf("login error: %w", err)
	}
	return models.LoginResult{User: user}, nil
}

func (a *authService) VerifyTwoFA(ctx context.Context, code, twofaToken string) (session.Profile, error) {
	var resp models.LoginResponse
	err := a.client.PostJSON(ctx, client.TwoFAVerifyPath, models.VerifyTwoFARequest{
		Token:      strings.TrimSpace(code),
		TwoFAToken: twofaToken,
	}, &resp)
	if err != nil {
		return session.Profile{}, authFailure(err, ErrInvalidTwoFACode, "Invalid 2FA code")
	}

	if resp.AccessToken == "" {
		return session.Profile{}, ErrNoAccessToken
	}
	user := resp.Account()
	if user == nil {
		return session.Profile{}, ErrInvalidLoginResponse
	}

	profile := session.Profile{Role: user.Role, Email: user.Email, AdminID: user.ID.String()}
	err = a.session.Establish(ctx,
		session.Credential{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken},
		profile,
	)
	if err != nil {
		return session.Profile{}, fmt.Errorf("2FA verification error: %w", err)
	}
	return profile, nil
}

// authFailure turns an API rejection into an AuthError. Other errors, such
// as ErrUnavailable, pass through.
func authFailure(err error, kind error, fallback string) error {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	switch {
	case apiErr.Status == 429:
		msg := apiErr.Message
		if msg == "" {
			msg = "Too many attempts. Slow down."
		}
		return &AuthError{Kind: client.ErrRateLimited, Message: msg}
	case strings.Contains(apiErr.Message, "Locked"):
		return &AuthError{Kind: ErrAccountLocked, Message: apiErr.Message}
	case apiErr.Message != "":
		return &AuthError{Kind: kind, Message: apiErr.Message}
	default:
		return &AuthError{Kind: kind, Message: fallback}
	}
}

func (a *authService) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}

func (a *authService) Status() Status {
	st := Status{LoggedIn: a.session.LoggedIn(), Profile: a.session.Profile()}
	if !st.LoggedIn {
		return st
	}
	if claims, err := a.session.Claims(); err == nil {
		st.Subject = claims.Subject
		st.ExpiresAt = claims.ExpiresAt
		st.Expired = claims.Expired(a.now())
	}
	return st
}

func (a *authService) Me(ctx context.Context) (models.Me, error) {
	var me models.Me
	if err := a.client.GetJSON(ctx, mePath, nil, &me); err != nil {
		return models.Me{}, fmt.Errorf("get profile: %w", err)
	}
	return me, nil
}

func (a *authService) UpdateAccount(ctx context.Context, req models.UpdateAccountRequest) error {
	if err := a.client.PutJSON(ctx, updateAdminPath, req, nil); err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}

// EnableTwoFA starts 2FA enrolment and returns the QR code payload to scan.
func (a *authService) EnableTwoFA(ctx context.Context) (string, error) {
	var resp struct {
		QR string `json:"qr"`
	}
	if err := a.client.PostJSON(ctx, enableTwoFAPath, struct{}{}, &resp); err != nil {
		return "", fmt.Errorf("enable 2FA: %w", err)
	}
	return resp.QR, nil
}
