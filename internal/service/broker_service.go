// Package service contains the service layer for the Projects API
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sgsprojects/timesheet-api/internal/repository"
	"github.com/sgsprojects/timesheet-api/internal/servicelayer"
	"github.com/sgsprojects/timesheet-api/pkg/utils/zaplogger"
)

// ErrUnauthenticated means the bearer token is valid but no ERP
// credential was ever bound to it, e.g. token replay after a restart.
// The caller must log in at the web layer again.
var ErrUnauthenticated = errors.New("no ERP credential bound to this token")

// AuthFailedError means the ERP rejected the caller's credentials or
// session, after the single retry. The upstream status and body are
// preserved in the wrapped error.
type AuthFailedError struct {
	Err error
}

func (e *AuthFailedError) Error() string {
	return fmt.Sprintf("ERP authentication failed: %v", e.Err)
}

func (e *AuthFailedError) Unwrap() error {
	return e.Err
}

// SessionBroker obtains and maintains one ERP session per caller. Logins
// for the same caller are single-flighted behind a per-caller mutex;
// logins for different callers proceed in parallel. Session state is
// handed to operations per call and never stored on shared transport
// state.
type SessionBroker struct {
	client      *servicelayer.Client
	credentials *repository.CredentialStore
	cache       *repository.SessionCache

	mu         sync.Mutex
	loginLocks map[string]*sync.Mutex
}

// NewSessionBroker creates a new broker for the session lifecycle
func NewSessionBroker(client *servicelayer.Client, credentials *repository.CredentialStore, cache *repository.SessionCache) *SessionBroker {
	return &SessionBroker{
		client:      client,
		credentials: credentials,
		cache:       cache,
		loginLocks:  make(map[string]*sync.Mutex),
	}
}

// GetSession returns a session the ERP currently accepts for the caller.
// A cached session is probed first; only when the probe fails does the
// broker take the caller's login lock, re-check the cache (another
// request may have refreshed it meanwhile) and log in.
func (b *SessionBroker) GetSession(ctx context.Context, callerKey string) (*servicelayer.Session, error) {
	session, ok, err := b.cache.Get(ctx, callerKey)
	if err != nil {
		return nil, err
	}
	if ok {
		err := b.client.Probe(ctx, session)
		if err == nil {
			return session, nil
		}
		if !servicelayer.IsAuthFailure(err) {
			return nil, err
		}
		// Session expired upstream before the cache TTL ran out.
		if err := b.cache.Delete(ctx, callerKey); err != nil {
			return nil, err
		}
	}

	lock := b.loginLock(callerKey)
	lock.Lock()
	defer lock.Unlock()

	// A concurrent request for the same caller may have logged in while
	// this one waited for the lock.
	session, ok, err = b.cache.Get(ctx, callerKey)
	if err != nil {
		return nil, err
	}
	if ok {
		err := b.client.Probe(ctx, session)
		if err == nil {
			return session, nil
		}
		if !servicelayer.IsAuthFailure(err) {
			return nil, err
		}
	}

	return b.login(ctx, callerKey)
}

// Invalidate drops the caller's cached session. The stored credential is
// kept, so the next GetSession can log in again.
func (b *SessionBroker) Invalidate(ctx context.Context, callerKey string) error {
	return b.cache.Delete(ctx, callerKey)
}

// Execute runs op with a valid session for the caller. When op fails
// with an upstream 401/403, the session is invalidated, re-established
// and op retried exactly once; a second auth failure surfaces as
// AuthFailedError since it indicates a non-transient problem.
func (b *SessionBroker) Execute(ctx context.Context, callerKey string, op func(ctx context.Context, session *servicelayer.Session) error) error {
	session, err := b.GetSession(ctx, callerKey)
	if err != nil {
		return err
	}

	err = op(ctx, session)
	if err == nil || !servicelayer.IsAuthFailure(err) {
		return err
	}

	zaplogger.Debug("session rejected mid-operation, retrying once", zaplogger.Fields{"caller": callerKey})

	if err := b.Invalidate(ctx, callerKey); err != nil {
		return err
	}
	session, err = b.GetSession(ctx, callerKey)
	if err != nil {
		return err
	}

	err = op(ctx, session)
	if err != nil && servicelayer.IsAuthFailure(err) {
		return &AuthFailedError{Err: err}
	}
	return err
}

// login performs the ERP login for the caller and caches the result.
// Callers must hold the caller's login lock.
func (b *SessionBroker) login(ctx context.Context, callerKey string) (*servicelayer.Session, error) {
	cred, ok := b.credentials.Get(callerKey)
	if !ok {
		return nil, ErrUnauthenticated
	}

	session, err := b.client.Login(ctx, cred.Username, cred.Password)
	if err != nil {
		var se *servicelayer.StatusError
		if errors.As(err, &se) {
			return nil, &AuthFailedError{Err: err}
		}
		return nil, err
	}

	if err := b.cache.Put(ctx, callerKey, session); err != nil {
		// The session itself is usable; losing the cache entry only
		// costs an extra login later.
		zaplogger.Warn("failed to cache ERP session", zaplogger.Fields{"caller": callerKey, "error": err.Error()})
	}

	return session, nil
}

func (b *SessionBroker) loginLock(callerKey string) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()

	lock, ok := b.loginLocks[callerKey]
	if !ok {
		lock = &sync.Mutex{}
		b.loginLocks[callerKey] = lock
	}
	return lock
}
