package session

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/irfan7230/EmpowHer-sub001/internal/apps/assistant"
	"github.com/irfan7230/EmpowHer-sub001/internal/apps/sos"
)

// Session is one client's process-lifetime state.
type Session struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	SOS       *sos.Store       `json:"-"`
	Assistant *assistant.Store `json:"-"`

	closers []func()
}

// AddCloser registers fn to run when the session ends, e.g. to drop store
// subscriptions made by the factory.
func (s *Session) AddCloser(fn func()) {
	s.closers = append(s.closers, fn)
}

// Factory builds the stores of a new session.
type Factory func(id string) *Session

// Registry holds live sessions. Sessions idle for longer than the TTL are
// evicted: an active SOS is deactivated (and archived) and pending assistant
// replies are cancelled.
type Registry struct {
	cache   *gocache.Cache
	factory Factory
	hooks   []func(*Session)
}

// NewRegistry creates a registry. cleanupInterval controls how often expired
// sessions are swept.
func NewRegistry(idleTTL, cleanupInterval time.Duration, factory Factory) *Registry {
	r := &Registry{
		cache:   gocache.New(idleTTL, cleanupInterval),
		factory: factory,
	}
	r.cache.OnEvicted(func(id string, v interface{}) {
		s, ok := v.(*Session)
		if !ok {
			return
		}
		// An SOS left active is ended so its incident is archived.
		s.SOS.DeactivateSOS()
		s.Assistant.Close()
		for _, fn := range s.closers {
			fn()
		}
		for _, hook := range r.hooks {
			hook(s)
		}
		slog.Info("session closed", "session_id", id)
	})
	return r
}

// OnClose registers fn to run after a session is removed or expires. Hooks
// must be registered before the registry is used.
func (r *Registry) OnClose(fn func(*Session)) {
	r.hooks = append(r.hooks, fn)
}

// Create starts a new session.
func (r *Registry) Create() *Session {
	id := uuid.NewString()
	s := r.factory(id)
	s.ID = id
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	r.cache.SetDefault(id, s)
	return s
}

// Get returns a live session and refreshes its idle timer.
func (r *Registry) Get(id string) (*Session, bool) {
	v, ok := r.cache.Get(id)
	if !ok {
		return nil, false
	}
	s := v.(*Session)
	r.cache.SetDefault(id, s)
	return s, true
}

// Remove ends a session immediately.
func (r *Registry) Remove(id string) {
	r.cache.Delete(id)
}

func (r *Registry) Count() int {
	return r.cache.ItemCount()
}

// Sweep evicts expired sessions now instead of waiting for the janitor.
func (r *Registry) Sweep() {
	r.cache.DeleteExpired()
}

// Close ends every session.
func (r *Registry) Close() {
	for id := range r.cache.Items() {
		r.cache.Delete(id)
	}
}
