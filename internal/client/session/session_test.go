package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cre8tlystudio/adminctl/internal/client/repositories/metadata"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*************
 * helpers
 *************/

type countingNavigator struct{ calls atomic.Int32 }

func (n *countingNavigator) ToLogin(context.Context) { n.calls.Add(1) }

func newLoggedIn(t *testing.T, nav Navigator) (*Manager, *metadata.MemoryRepository) {
	t.Helper()
	store := metadata.NewMemoryRepository()
	m := NewManager(store, WithNavigator(nav))
	require.NoError(t, m.Establish(context.Background(),
		Credential{AccessToken: "A1", RefreshToken: "R1"},
		Profile{Role: "admin", Email: "a@x.io"}))
	return m, store
}

/*************
 * persistence
 *************/

func TestEstablish_PersistsAndLoadRestores(t *testing.T) {
	ctx := context.Background()
	store := metadata.NewMemoryRepository()
	m := NewManager(store)

	require.NoError(t, m.Establish(ctx,
		Credential{AccessToken: "A1", RefreshToken: "R1"},
		Profile{Role: "admin", AdminID: "7"}))

	values, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A1", values[KeyAccessToken])
	assert.Equal(t, "R1", values[KeyRefreshToken])
	assert.Equal(t, "admin", values[KeyRole])
	assert.Equal(t, "7", values[KeyAdminID])
	assert.Equal(t, "", values[KeyUserEmail])

	restored := NewManager(store)
	require.NoError(t, restored.Load(ctx))
	assert.Equal(t, Credential{AccessToken: "A1", RefreshToken: "R1"}, restored.Credential())
	assert.Equal(t, Profile{Role: "admin", AdminID: "7"}, restored.Profile())
	assert.True(t, restored.LoggedIn())
}

func TestEstablish_RejectsEmptyAccessToken(t *testing.T) {
	m := NewManager(metadata.NewMemoryRepository())
	require.Error(t, m.Establish(context.Background(), Credential{RefreshToken: "R"}, Profile{}))
	assert.False(t, m.LoggedIn())
}

func TestLogout_ClearsSessionKeysOnly(t *testing.T) {
	ctx := context.Background()
	nav := &countingNavigator{}
	m, store := newLoggedIn(t, nav)
	require.NoError(t, store.Set(ctx, "geoCache_v1", "{}"))

	require.NoError(t, m.Logout(ctx))

	values, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"geoCache_v1": "{}"}, values)
	assert.Equal(t, Credential{}, m.Credential())
	assert.Zero(t, nav.calls.Load())
}

/*************
 * Refresh
 *************/

func TestRefresh_SingleCallerSuccess(t *testing.T) {
	ctx := context.Background()
	m, store := newLoggedIn(t, nil)

	var gotRefresh string
	token, err := m.Refresh(ctx, "A1", func(_ context.Context, rt string) (Credential, error) {
		gotRefresh = rt
		return Credential{AccessToken: "A2", RefreshToken: "R2"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "A2", token)
	assert.Equal(t, "R1", gotRefresh)
	assert.Equal(t, Credential{AccessToken: "A2", RefreshToken: "R2"}, m.Credential())

	persisted, err := store.Get(ctx, KeyRefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "R2", persisted)
}

func TestRefresh_KeepsRefreshTokenWhenNotRotated(t *testing.T) {
	m, _ := newLoggedIn(t, nil)
	_, err := m.Refresh(context.Background(), "A1", func(context.Context, string) (Credential, error) {
		return Credential{AccessToken: "A2"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "R1", m.Credential().RefreshToken)
}

func TestRefresh_ConcurrentCallersShareOneExchange(t *testing.T) {
	const n = 8
	ctx := context.Background()
	m, _ := newLoggedIn(t, nil)

	var calls atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})
	exchange := func(context.Context, string) (Credential, error) {
		if calls.Add(1) == 1 {
			close(entered)
		}
		<-release
		return Credential{AccessToken: "A2", RefreshToken: "R2"}, nil
	}

	var wg sync.WaitGroup
	tokens := make([]string, n)
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tokens[i], errs[i] = m.Refresh(ctx, "A1", exchange)
		}()
	}

	<-entered
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for i := range n {
		require.NoError(t, errs[i])
		assert.Equal(t, "A2", tokens[i])
	}
}

func TestRefresh_StaleTokenSkipsExchange(t *testing.T) {
	m, _ := newLoggedIn(t, nil)
	_, err := m.Refresh(context.Background(), "A1", func(context.Context, string) (Credential, error) {
		return Credential{AccessToken: "A2", RefreshToken: "R2"}, nil
	})
	require.NoError(t, err)

	token, err := m.Refresh(context.Background(), "A1", func(context.Context, string) (Credential, error) {
		t.Fatal("exchange must not run for a replaced token")
		return Credential{}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "A2", token)
}

func TestRefresh_FailureLogsOutOnceForAllCallers(t *testing.T) {
	const n = 8
	ctx := context.Background()
	nav := &countingNavigator{}
	m, store := newLoggedIn(t, nav)
	boom := errors.New("refresh rejected")

	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	exchange := func(context.Context, string) (Credential, error) {
		if calls.Add(1) == 1 {
			close(entered)
		}
		<-release
		return Credential{}, boom
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = m.Refresh(ctx, "A1", exchange)
		}()
	}

	<-entered
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(1), nav.calls.Load())
	for i := range n {
		require.ErrorIs(t, errs[i], boom)
	}

	values, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, values)
	assert.False(t, m.LoggedIn())
}

func TestRefresh_MissingRefreshTokenForcesLogout(t *testing.T) {
	ctx := context.Background()
	nav := &countingNavigator{}
	store := metadata.NewMemoryRepository()
	m := NewManager(store, WithNavigator(nav))
	require.NoError(t, m.Establish(ctx, Credential{AccessToken: "A1"}, Profile{}))

	_, err := m.Refresh(ctx, "A1", func(context.Context, string) (Credential, error) {
		t.Fatal("exchange must not run without a refresh token")
		return Credential{}, nil
	})
	require.ErrorIs(t, err, ErrMissingRefreshToken)
	assert.Equal(t, int32(1), nav.calls.Load())
}

func TestRefresh_WithoutSessionDoesNotLogOut(t *testing.T) {
	ctx := context.Background()
	nav := &countingNavigator{}
	store := metadata.NewMemoryRepository()
	require.NoError(t, store.Set(ctx, "geoCache_v1", "{}"))
	m := NewManager(store, WithNavigator(nav))

	for range 3 {
		_, err := m.Refresh(ctx, "", func(context.Context, string) (Credential, error) {
			t.Fatal("exchange must not run without a session")
			return Credential{}, nil
		})
		require.ErrorIs(t, err, ErrNotLoggedIn)
	}
	assert.Zero(t, nav.calls.Load())

	v, err := store.Get(ctx, "geoCache_v1")
	require.NoError(t, err)
	assert.Equal(t, "{}", v)
}

func TestRefresh_EmptyAccessTokenInResponseIsFailure(t *testing.T) {
	nav := &countingNavigator{}
	m, _ := newLoggedIn(t, nav)
	_, err := m.Refresh(context.Background(), "A1", func(context.Context, string) (Credential, error) {
		return Credential{RefreshToken: "R2"}, nil
	})
	require.Error(t, err)
	assert.Equal(t, int32(1), nav.calls.Load())
}

func TestRefresh_AfterForcedLogoutDoesNotNavigateAgain(t *testing.T) {
	ctx := context.Background()
	nav := &countingNavigator{}
	m, _ := newLoggedIn(t, nav)
	boom := errors.New("expired")

	_, err := m.Refresh(ctx, "A1", func(context.Context, string) (Credential, error) {
		return Credential{}, boom
	})
	require.ErrorIs(t, err, boom)

	_, err = m.Refresh(ctx, "A1", func(context.Context, string) (Credential, error) {
		t.Fatal("exchange must not run after logout")
		return Credential{}, nil
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), nav.calls.Load())
}

func TestRefresh_InitiatorCancellationDoesNotAbortExchange(t *testing.T) {
	m, _ := newLoggedIn(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var exchangeCtxErr error
	token, err := m.Refresh(ctx, "A1", func(ctx context.Context, _ string) (Credential, error) {
		exchangeCtxErr = ctx.Err()
		return Credential{AccessToken: "A2", RefreshToken: "R2"}, nil
	})
	require.NoError(t, err)
	assert.NoError(t, exchangeCtxErr)
	assert.Equal(t, "A2", token)
}

func TestRefresh_WaiterHonoursContext(t *testing.T) {
	m, _ := newLoggedIn(t, nil)

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = m.Refresh(context.Background(), "A1", func(context.Context, string) (Credential, error) {
			close(entered)
			<-release
			return Credential{AccessToken: "A2", RefreshToken: "R2"}, nil
		})
	}()
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := m.Refresh(ctx, "A1", nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	<-done
	assert.Equal(t, "A2", m.AccessToken())
}

/*************
 * Claims
 *************/

func TestClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "42",
		"role": "admin",
		"exp":  exp.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	m := NewManager(metadata.NewMemoryRepository())
	_, err = m.Claims()
	require.ErrorIs(t, err, ErrNotLoggedIn)

	require.NoError(t, m.Establish(context.Background(), Credential{AccessToken: signed}, Profile{}))
	claims, err := m.Claims()
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.True(t, claims.ExpiresAt.Equal(exp))
	assert.False(t, claims.Expired(time.Now()))
	assert.True(t, claims.Expired(exp.Add(time.Minute)))
}

func TestClaims_Malformed(t *testing.T) {
	m := NewManager(metadata.NewMemoryRepository())
	require.NoError(t, m.Establish(context.Background(), Credential{AccessToken: "not-a-jwt"}, Profile{}))
	_, err := m.Claims()
	require.Error(t, err)
}
