package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/sgsprojects/timesheet-api/internal/repository"
	"github.com/sgsprojects/timesheet-api/internal/servicelayer"
)

// fakeServiceLayer imitates the upstream login and probe endpoints with
// call counting, so tests can assert how many logins a scenario costs.
type fakeServiceLayer struct {
	mu     sync.Mutex
	logins int
	probes int
	valid  map[string]bool

	rejectLogins    bool
	probeFailStatus int
}

func newFakeServiceLayer() *fakeServiceLayer {
	return &fakeServiceLayer{valid: make(map[string]bool)}
}

func (f *fakeServiceLayer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/Login" {
			f.mu.Lock()
			defer f.mu.Unlock()
			if f.rejectLogins {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":{"message":"Invalid credentials"}}`))
				return
			}
			f.logins++
			id := fmt.Sprintf("sess-%d", f.logins)
			f.valid[id] = true
			http.SetCookie(w, &http.Cookie{Name: "B1SESSION", Value: id})
			_ = json.NewEncoder(w).Encode(map[string]string{"SessionId": id})
			return
		}

		f.mu.Lock()
		f.probes++
		cookie, err := r.Cookie("B1SESSION")
		ok := err == nil && f.valid[cookie.Value]
		failStatus := f.probeFailStatus
		f.mu.Unlock()

		if !ok {
			if failStatus == 0 {
				failStatus = http.StatusUnauthorized
			}
			w.WriteHeader(failStatus)
			_, _ = w.Write([]byte(`{"error":{"message":"Session rejected"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"value":[]}`))
	})
}

func (f *fakeServiceLayer) loginCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logins
}

func (f *fakeServiceLayer) expire(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.valid[sessionID] = false
}

func newTestBroker(t *testing.T, fake *fakeServiceLayer) (*SessionBroker, *repository.CredentialStore, *repository.SessionCache) {
	t.Helper()

	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	client := servicelayer.New(srv.URL, "TESTDB")
	credentials := repository.NewCredentialStore()
	cache := repository.NewSessionCache(redisClient, time.Minute)

	return NewSessionBroker(client, credentials, cache), credentials, cache
}

func TestGetSessionLogsInOnce(t *testing.T) {
	fake := newFakeServiceLayer()
	broker, credentials, _ := newTestBroker(t, fake)
	credentials.Save("caller-1", "manager", "secret", time.Now().Add(time.Hour))

	session, err := broker.GetSession(context.Background(), "caller-1")
	require.NoError(t, err)
	require.Equal(t, "sess-1", session.ID)
	require.Equal(t, 1, fake.loginCount())
}

func TestGetSessionReusesCachedSession(t *testing.T) {
	fake := newFakeServiceLayer()
	broker, credentials, _ := newTestBroker(t, fake)
	credentials.Save("caller-1", "manager", "secret", time.Now().Add(time.Hour))
	ctx := context.Background()

	_, err := broker.GetSession(ctx, "caller-1")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		session, err := broker.GetSession(ctx, "caller-1")
		require.NoError(t, err)
		require.Equal(t, "sess-1", session.ID)
	}
	require.Equal(t, 1, fake.loginCount())
}

func TestGetSessionSingleFlightPerCaller(t *testing.T) {
	fake := newFakeServiceLayer()
	broker, credentials, _ := newTestBroker(t, fake)
	credentials.Save("caller-1", "manager", "secret", time.Now().Add(time.Hour))

	const concurrent = 8
	var wg sync.WaitGroup
	errs := make([]error, concurrent)
	for i := 0; i < concurrent; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = broker.GetSession(context.Background(), "caller-1")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, 1, fake.loginCount())
}

func TestGetSessionReplacesExpiredSession(t *testing.T) {
	fake := newFakeServiceLayer()
	broker, credentials, _ := newTestBroker(t, fake)
	credentials.Save("caller-1", "manager", "secret", time.Now().Add(time.Hour))
	ctx := context.Background()

	first, err := broker.GetSession(ctx, "caller-1")
	require.NoError(t, err)

	fake.expire(first.ID)

	second, err := broker.GetSession(ctx, "caller-1")
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, 2, fake.loginCount())
}

func TestGetSessionWithoutCredential(t *testing.T) {
	fake := newFakeServiceLayer()
	broker, _, _ := newTestBroker(t, fake)

	_, err := broker.GetSession(context.Background(), "unknown-caller")
	require.ErrorIs(t, err, ErrUnauthenticated)
	require.Equal(t, 0, fake.loginCount())
}

func TestGetSessionRejectedCredentials(t *testing.T) {
	fake := newFakeServiceLayer()
	fake.rejectLogins = true
	broker, credentials, _ := newTestBroker(t, fake)
	credentials.Save("caller-1", "manager", "wrong", time.Now().Add(time.Hour))

	_, err := broker.GetSession(context.Background(), "caller-1")

	var authErr *AuthFailedError
	require.ErrorAs(t, err, &authErr)
}

func TestGetSessionIsolatesCallers(t *testing.T) {
	fake := newFakeServiceLayer()
	broker, credentials, _ := newTestBroker(t, fake)
	credentials.Save("caller-a", "alice", "pw-a", time.Now().Add(time.Hour))
	credentials.Save("caller-b", "bob", "pw-b", time.Now().Add(time.Hour))
	ctx := context.Background()

	sessionA, err := broker.GetSession(ctx, "caller-a")
	require.NoError(t, err)
	sessionB, err := broker.GetSession(ctx, "caller-b")
	require.NoError(t, err)

	require.NotEqual(t, sessionA.ID, sessionB.ID)
	require.Equal(t, 2, fake.loginCount())

	// Dropping one caller's session leaves the other's untouched.
	require.NoError(t, broker.Invalidate(ctx, "caller-a"))
	again, err := broker.GetSession(ctx, "caller-b")
	require.NoError(t, err)
	require.Equal(t, sessionB.ID, again.ID)
	require.Equal(t, 2, fake.loginCount())
}

func TestGetSessionProbeServerError(t *testing.T) {
	fake := newFakeServiceLayer()
	fake.probeFailStatus = http.StatusInternalServerError
	broker, credentials, cache := newTestBroker(t, fake)
	credentials.Save("caller-1", "manager", "secret", time.Now().Add(time.Hour))

	require.NoError(t, cache.Put(context.Background(), "caller-1", &servicelayer.Session{ID: "unreachable"}))

	_, err := broker.GetSession(context.Background(), "caller-1")

	var se *servicelayer.StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusInternalServerError, se.StatusCode)
	require.Equal(t, 0, fake.loginCount())
}

func TestGetSessionProbeServerErrorAfterLockWait(t *testing.T) {
	fake := newFakeServiceLayer()
	fake.probeFailStatus = http.StatusInternalServerError
	broker, credentials, cache := newTestBroker(t, fake)
	credentials.Save("caller-1", "manager", "secret", time.Now().Add(time.Hour))

	lock := broker.loginLock("caller-1")
	lock.Lock()

	done := make(chan error, 1)
	go func() {
		_, err := broker.GetSession(context.Background(), "caller-1")
		done <- err
	}()

	// Let the request park on the login lock, then hand it a cached
	// session the upstream answers with a server error.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, cache.Put(context.Background(), "caller-1", &servicelayer.Session{ID: "unreachable"}))
	lock.Unlock()

	err := <-done
	var se *servicelayer.StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusInternalServerError, se.StatusCode)

	// A server error is not an expired session; it must not trigger a
	// fresh login.
	require.Equal(t, 0, fake.loginCount())
}

func TestExecuteRetriesOnceAfterAuthFailure(t *testing.T) {
	fake := newFakeServiceLayer()
	broker, credentials, _ := newTestBroker(t, fake)
	credentials.Save("caller-1", "manager", "secret", time.Now().Add(time.Hour))

	calls := 0
	err := broker.Execute(context.Background(), "caller-1", func(ctx context.Context, session *servicelayer.Session) error {
		calls++
		if calls == 1 {
			return &servicelayer.StatusError{StatusCode: http.StatusUnauthorized, Body: "session expired"}
		}
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 2, calls)
	require.Equal(t, 2, fake.loginCount())
}

func TestExecuteStopsAfterSecondAuthFailure(t *testing.T) {
	fake := newFakeServiceLayer()
	broker, credentials, _ := newTestBroker(t, fake)
	credentials.Save("caller-1", "manager", "secret", time.Now().Add(time.Hour))

	calls := 0
	err := broker.Execute(context.Background(), "caller-1", func(ctx context.Context, session *servicelayer.Session) error {
		calls++
		return &servicelayer.StatusError{StatusCode: http.StatusUnauthorized, Body: "still rejected"}
	})

	var authErr *AuthFailedError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, 2, calls)
}

func TestExecutePassesThroughNonAuthErrors(t *testing.T) {
	fake := newFakeServiceLayer()
	broker, credentials, _ := newTestBroker(t, fake)
	credentials.Save("caller-1", "manager", "secret", time.Now().Add(time.Hour))

	calls := 0
	opErr := &servicelayer.StatusError{StatusCode: http.StatusBadRequest, Body: "bad payload"}
	err := broker.Execute(context.Background(), "caller-1", func(ctx context.Context, session *servicelayer.Session) error {
		calls++
		return opErr
	})

	require.ErrorIs(t, err, opErr)
	require.Equal(t, 1, calls)
}
