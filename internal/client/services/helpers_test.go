package services

import (
	"context"
	"testing"
	"time"

	"github.com/cre8tlystudio/adminctl/internal/client/apitest"
	"github.com/cre8tlystudio/adminctl/internal/client/client"
	"github.com/cre8tlystudio/adminctl/internal/client/repositories/metadata"
	"github.com/cre8tlystudio/adminctl/internal/client/session"
	"github.com/cre8tlystudio/adminctl/internal/logging"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

type env struct {
	srv    *apitest.Server
	store  *metadata.MemoryRepository
	sess   *session.Manager
	client *client.HTTPClient
	logger logging.Logger
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		srv:    apitest.NewServer(t),
		store:  metadata.NewMemoryRepository(),
		logger: logging.Nop(),
	}
	e.sess = session.NewManager(e.store)
	e.client = client.NewHTTPClient(e.srv.URL, e.sess, client.WithTimeout(2*time.Second))
	return e
}

// loggedIn gives the environment a valid session accepted by the fake API.
func (e *env) loggedIn(t *testing.T) *env {
	t.Helper()
	require.NoError(t, e.sess.Establish(context.Background(),
		session.Credential{AccessToken: "A1", RefreshToken: "R1"},
		session.Profile{Role: "admin", Email: "admin@cre8tly.studio"}))
	return e
}
