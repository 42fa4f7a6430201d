package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/goliatone/go-eventform/pkg/registration"
)

// Session owns one form instance. Handlers hold mu for the whole
// change-and-render cycle so events for a session run one at a time.
type Session struct {
	ID string

	mu   sync.Mutex
	form *registration.Form
}

// Lock serialises access to the session's form and returns it.
func (s *Session) Lock() *registration.Form {
	s.mu.Lock()
	return s.form
}

// Unlock releases the session.
func (s *Session) Unlock() {
	s.mu.Unlock()
}

// Sessions keeps form instances keyed by session id. Entries expire after the
// TTL since their last use, which discards the form.
type Sessions struct {
	cache   *cache.Cache
	newForm func() (*registration.Form, error)
}

// NewSessions creates a store whose entries live for ttl after their last
// access. Expired entries are purged every cleanup interval.
func NewSessions(ttl, cleanup time.Duration, newForm func() (*registration.Form, error)) *Sessions {
	return &Sessions{
		cache:   cache.New(ttl, cleanup),
		newForm: newForm,
	}
}

// Get returns the session for id and extends its lifetime.
func (s *Sessions) Get(id string) (*Session, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}
	value, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	session, ok := value.(*Session)
	if !ok {
		return nil, false
	}
	s.cache.Set(id, session, cache.DefaultExpiration)
	return session, true
}

// Create starts a session with a fresh form.
func (s *Sessions) Create() (*Session, error) {
	f, err := s.newForm()
	if err != nil {
		return nil, fmt.Errorf("server: new form: %w", err)
	}
	session := &Session{ID: uuid.NewString(), form: f}
	if err := s.cache.Add(session.ID, session, cache.DefaultExpiration); err != nil {
		return nil, fmt.Errorf("server: store session: %w", err)
	}
	return session, nil
}

// Delete discards a session.
func (s *Sessions) Delete(id string) {
	s.cache.Delete(id)
}

// Count reports the number of live sessions, including expired entries not
// yet purged.
func (s *Sessions) Count() int {
	return s.cache.ItemCount()
}
