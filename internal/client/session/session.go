package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cre8tlystudio/adminctl/internal/client/repositories/metadata"
	"github.com/cre8tlystudio/adminctl/internal/logging"
)

// Keys under which the session is persisted.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyRole         = "role"
	KeyUserEmail    = "userEmail"
	KeyAdminID      = "adminId"
)

var sessionKeys = []string{KeyAccessToken, KeyRefreshToken, KeyRole, KeyUserEmail, KeyAdminID}

var (
	ErrMissingRefreshToken = errors.New("missing refresh token")
	ErrNotLoggedIn         = errors.New("not logged in")
	// ErrLoggedOut is returned to a refresh caller whose session was
	// terminated while its request was in flight.
	ErrLoggedOut = errors.New("session was logged out")
)

type Credential struct {
	AccessToken  string
	RefreshToken string
}

type Profile struct {
	Role    string
	Email   string
	AdminID string
}

// RefreshFunc exchanges a refresh token for a new credential pair.
type RefreshFunc func(ctx context.Context, refreshToken string) (Credential, error)

// Navigator leads the user back to the login entry point after a forced logout.
type Navigator interface {
	ToLogin(ctx context.Context)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context)

func (f NavigatorFunc) ToLogin(ctx context.Context) { f(ctx) }

type pendingRefresh struct {
	done  chan struct{}
	token string
	err   error
}

func (p *pendingRefresh) wait(ctx context.Context) (string, error) {
	select {
	case <-p.done:
		return p.token, p.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

type Manager struct {
	store     metadata.Repository
	logger    logging.Logger
	navigator Navigator

	mu          sync.Mutex
	cred        Credential
	profile     Profile
	pending     *pendingRefresh
	lastFailure error
}

type Option func(*Manager)

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

func WithNavigator(n Navigator) Option {
	return func(m *Manager) { m.navigator = n }
}

func NewManager(store metadata.Repository, opts ...Option) *Manager {
	m := &Manager{store: store, logger: logging.Nop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetNavigator replaces the navigator; the console installs itself once its
// REPL is ready.
func (m *Manager) SetNavigator(n Navigator) {
	m.mu.Lock()
	m.navigator = n
	m.mu.Unlock()
}

// Load restores the persisted session into memory.
func (m *Manager) Load(ctx context.Context) error {
	values, err := m.store.List(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = Credential{AccessToken: values[KeyAccessToken], RefreshToken: values[KeyRefreshToken]}
	m.profile = Profile{Role: values[KeyRole], Email: values[KeyUserEmail], AdminID: values[KeyAdminID]}
	return nil
}

// Establish stores a freshly issued session after login or 2FA verification.
// Profile fields left empty are stored empty, so nothing leaks over from a
// previous account.
func (m *Manager) Establish(ctx context.Context, cred Credential, profile Profile) error {
	if cred.AccessToken == "" {
		return errors.New("establish session: empty access token")
	}

	err := m.store.SetMany(ctx, map[string]string{
		KeyAccessToken:  cred.AccessToken,
		KeyRefreshToken: cred.RefreshToken,
		KeyRole:         profile.Role,
		KeyUserEmail:    profile.Email,
		KeyAdminID:      profile.AdminID,
	})
	if err != nil {
		return fmt.Errorf("establish session: %w", err)
	}

	m.mu.Lock()
	m.cred = cred
	m.profile = profile
	m.lastFailure = nil
	m.mu.Unlock()
	return nil
}

// Logout drops the session on the user's request. No navigation happens.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.cred = Credential{}
	m.profile = Profile{}
	m.mu.Unlock()

	if err := m.store.Delete(ctx, sessionKeys...); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cred.AccessToken
}

func (m *Manager) Credential() Credential {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cred
}

func (m *Manager) Profile() Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profile
}

func (m *Manager) LoggedIn() bool {
	return m.AccessToken() != ""
}

// Refresh returns a usable access token for a request that was rejected
// while carrying failedToken. See the package documentation for the
// coalescing rules. The exchange runs detached from ctx cancellation so a
// caller giving up does not fail the refresh for everyone else.
func (m *Manager) Refresh(ctx context.Context, failedToken string, exchange RefreshFunc) (string, error) {
	m.mu.Lock()
	if p := m.pending; p != nil {
		m.mu.Unlock()
		return p.wait(ctx)
	}
	current := m.cred.AccessToken
	if current != "" && current != failedToken {
		m.mu.Unlock()
		return current, nil
	}
	if current == "" && failedToken == "" {
		// The request carried no credential, so there is no session to expire.
		m.mu.Unlock()
		return "", ErrNotLoggedIn
	}
	if current == "" && failedToken != "" {
		err := m.lastFailure
		m.mu.Unlock()
		if err == nil {
			err = ErrLoggedOut
		}
		return "", err
	}

	p := &pendingRefresh{done: make(chan struct{})}
	m.pending = p
	refreshToken := m.cred.RefreshToken
	m.mu.Unlock()

	token, err := m.runRefresh(context.WithoutCancel(ctx), refreshToken, exchange)

	m.mu.Lock()
	m.pending = nil
	m.mu.Unlock()

	p.token, p.err = token, err
	close(p.done)
	return token, err
}

func (m *Manager) runRefresh(ctx context.Context, refreshToken string, exchange RefreshFunc) (string, error) {
	var (
		cred Credential
		err  error
	)
	if refreshToken == "" {
		err = ErrMissingRefreshToken
	} else {
		m.logger.Info(ctx, "refreshing session")
		cred, err = exchange(ctx, refreshToken)
		if err == nil && cred.AccessToken == "" {
			err = errors.New("refresh returned no access token")
		}
	}

	if err != nil {
		m.logger.Warn(ctx, "session refresh failed, logging out", "error", err)
		m.forceLogout(ctx, err)
		return "", err
	}

	if cred.RefreshToken == "" {
		cred.RefreshToken = refreshToken
	}
	if perr := m.store.SetMany(ctx, map[string]string{
		KeyAccessToken:  cred.AccessToken,
		KeyRefreshToken: cred.RefreshToken,
	}); perr != nil {
		m.logger.Error(ctx, "persisting refreshed session failed", "error", perr)
	}

	m.mu.Lock()
	m.cred = cred
	m.mu.Unlock()

	m.logger.Info(ctx, "session refreshed")
	return cred.AccessToken, nil
}

func (m *Manager) forceLogout(ctx context.Context, cause error) {
	m.mu.Lock()
	m.cred = Credential{}
	m.profile = Profile{}
	m.lastFailure = cause
	nav := m.navigator
	m.mu.Unlock()

	if err := m.store.Delete(ctx, sessionKeys...); err != nil {
		m.logger.Error(ctx, "clearing session failed", "error", err)
	}
	if nav != nil {
		nav.ToLogin(ctx)
	}
}
