package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cre8tlystudio/adminctl/internal/client/client"
	"github.com/cre8tlystudio/adminctl/internal/client/config"
	"github.com/cre8tlystudio/adminctl/internal/client/repositories/metadata"
	"github.com/cre8tlystudio/adminctl/internal/client/services"
	"github.com/cre8tlystudio/adminctl/internal/client/session"
	"github.com/cre8tlystudio/adminctl/internal/logging"
	"golang.org/x/time/rate"
)

type Mode string

const (
	ModeOffline     Mode = "offline"
	ModeOnline      Mode = "online"
	ModeMaintenance Mode = "maintenance"
)

const statusCheckTimeout = 5 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	repos  *client.Repositories

	session   *session.Manager
	auth      services.AuthService
	admin     services.AdminService
	community services.CommunityService
	messages  services.MessageService
	analytics services.AnalyticsService

	reader *bufio.Reader
	out    io.Writer

	mu      sync.Mutex
	mode    Mode
	expired bool
}

// NewApp opens the state store at cfg.StatePath, restores the saved session
// and wires the API services.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	repos, err := client.InitStateStore(ctx, cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing state store: %w", err)
	}

	a, err := newApp(ctx, cfg, logger, repos.Metadata)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}
	a.repos = repos
	return a, nil
}

func newApp(ctx context.Context, cfg *config.Config, logger logging.Logger, store metadata.Repository) (*App, error) {
	a := &App{
		config: cfg,
		logger: logger,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	a.session = session.NewManager(store,
		session.WithLogger(logger.With("component", "session")),
		session.WithNavigator(a),
	)
	if err := a.session.Load(ctx); err != nil {
		return nil, err
	}

	apiClient := client.NewHTTPClient(cfg.BaseURL, a.session,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLogger(logger.With("component", "client")),
	)

	limit := rate.Inf
	if cfg.GeoRatePerSecond > 0 {
		limit = rate.Limit(cfg.GeoRatePerSecond)
	}

	a.auth = services.NewAuthService(apiClient, a.session)
	a.admin = services.NewAdminService(apiClient, logger)
	a.community = services.NewCommunityService(apiClient, logger)
	a.messages = services.NewMessageService(apiClient)
	a.analytics = services.NewAnalyticsService(apiClient, store, rate.NewLimiter(limit, cfg.GeoBurst), logger)
	return a, nil
}

// Close releases the state store.
func (a *App) Close() error {
	if a.repos == nil {
		return nil
	}
	return a.repos.Close()
}

func (a *App) isLoggedIn() bool {
	return a.session.LoggedIn()
}

// ToLogin is called by the session manager after a failed refresh has
// logged the admin out.
func (a *App) ToLogin(ctx context.Context) {
	a.mu.Lock()
	a.expired = true
	a.mu.Unlock()

	a.logger.Warn(ctx, "session expired, login required")
	fmt.Fprintln(a.out, "Your session has expired. Please log in again.")
}

// takeExpired reports whether a forced logout happened since the last call.
func (a *App) takeExpired() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	e := a.expired
	a.expired = false
	return e
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

// checkStatus probes the maintenance endpoint and derives the mode from it.
func (a *App) checkStatus(ctx context.Context) Mode {
	ctx, cancel := context.WithTimeout(ctx, statusCheckTimeout)
	defer cancel()

	on, err := a.admin.MaintenanceStatus(ctx)
	switch {
	case errors.Is(err, client.ErrUnavailable):
		return ModeOffline
	case err != nil:
		// The API answered, so it is reachable.
		a.logger.Debug(ctx, "maintenance flag unreadable", "error", err)
		return ModeOnline
	case on:
		return ModeMaintenance
	default:
		return ModeOnline
	}
}

// StartOnlineStatusWatcher checks connectivity right away and then every
// interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.setMode(ctx, a.checkStatus(ctx))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.setMode(ctx, a.checkStatus(ctx))
		case <-ctx.Done():
			return
		}
	}
}

// commandContext carries a logger tagged with the running command, picked
// up by the gateway for its request logs.
func (a *App) commandContext(ctx context.Context, name string) context.Context {
	return logging.WithLogger(ctx, a.logger.With("command", name))
}

func (a *App) getStatus() string {
	s := ""
	if p := a.session.Profile(); a.isLoggedIn() {
		who := p.Email
		if who == "" {
			who = p.Role
		}
		if who != "" {
			s = who + " "
		}
	}
	if m := a.Mode(); m != "" {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}
