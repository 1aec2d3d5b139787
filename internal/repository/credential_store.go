package repository

import (
	"sync"
	"time"
)

// Credential is the username/password a caller presented at login, bound
// to the caller key derived from their issued token. ExpiresAt mirrors
// the token expiry so stale entries can be swept.
type Credential struct {
	Username  string
	Password  string
	ExpiresAt time.Time
}

// CredentialStore keeps credentials in process memory only. A restart
// loses them on purpose: every caller must then re-authenticate at the
// web layer before ERP sessions can be re-established.
type CredentialStore struct {
	mu    sync.RWMutex
	creds map[string]Credential
}

// NewCredentialStore creates an empty credential store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{creds: make(map[string]Credential)}
}

// Save binds a credential to a caller key, replacing any previous entry.
func (s *CredentialStore) Save(callerKey, username, password string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[callerKey] = Credential{Username: username, Password: password, ExpiresAt: expiresAt}
}

// Get returns the credential bound to a caller key.
func (s *CredentialStore) Get(callerKey string) (Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.creds[callerKey]
	return cred, ok
}

// Remove deletes the credential bound to a caller key.
func (s *CredentialStore) Remove(callerKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.creds, callerKey)
}

// SweepExpired removes entries whose token has expired and returns how
// many were removed.
func (s *CredentialStore) SweepExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, cred := range s.creds {
		if cred.ExpiresAt.Before(now) {
			delete(s.creds, key)
			removed++
		}
	}
	return removed
}
