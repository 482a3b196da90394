package httpx

import (
	"context"
	"net/http"
	"sync"

	"github.com/studiofoto/intake/internal/core/session"
)

// deviceHeader names the shop device a request belongs to. Each device gets
// its own session and draft slot; a missing header falls back to a shared
// default slot, which is fine for the single-terminal shops.
const deviceHeader = "X-Device-Id"

// SessionFactory builds a session bound to a device's draft slot.
type SessionFactory func(device string) *session.Session

// registry hands out one live session per device. The wizard itself is
// single-threaded, so each session carries a mutex that the handler holds for
// the duration of the request touching it.
type registry struct {
	mu       sync.Mutex
	factory  SessionFactory
	sessions map[string]*deviceSession
}

type deviceSession struct {
	mu sync.Mutex
	s  *session.Session
}

func newRegistry(factory SessionFactory) *registry {
	return &registry{
		factory:  factory,
		sessions: make(map[string]*deviceSession),
	}
}

// acquire returns the device's session with its lock held; the caller must
// call the returned release func. A first-seen device restores its draft
// before the session is used.
func (r *registry) acquire(ctx context.Context, req *http.Request) (*session.Session, func()) {
	device := req.Header.Get(deviceHeader)
	if device == "" {
		device = "default"
	}

	r.mu.Lock()
	ds, ok := r.sessions[device]
	if !ok {
		ds = &deviceSession{s: r.factory(device)}
		r.sessions[device] = ds
	}
	r.mu.Unlock()

	ds.mu.Lock()
	if !ok {
		// Draft is read exactly once, at first acquisition.
		_ = ds.s.Restore(ctx)
	}
	return ds.s, ds.mu.Unlock
}
