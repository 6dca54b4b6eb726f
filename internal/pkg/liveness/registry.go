package liveness

import (
	"context"
	"log/slog"
	"sync"

	"github.com/niosa-ap/attendance-backend-go/internal/pkg/clock"
)

type entry struct {
	session *Session
	source  *StreamSource
	cancel  context.CancelFunc
}

// Registry tracks at most one live capture session per staff member. Each
// session consumes its own StreamSource on a background goroutine; frames
// uploaded over HTTP are pushed into the source.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	clk      clock.Clock
}

func NewRegistry(clk clock.Clock) *Registry {
	return &Registry{
		sessions: make(map[string]*entry),
		clk:      clk,
	}
}

// Open starts a fresh session for staffID, cancelling and replacing any
// session already in flight.
func (r *Registry) Open(staffID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.sessions[staffID]; ok {
		old.cancel()
		old.session.Cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	session := NewSession(r.clk)
	source := NewStreamSource(4)
	r.sessions[staffID] = &entry{session: session, source: source, cancel: cancel}

	go func() {
		if err := session.Run(ctx, source); err != nil && ctx.Err() == nil {
			slog.Error("liveness session ended abnormally", "staff_id", staffID, "error", err)
		}
	}()

	return session
}

// Get returns the current session for staffID, if any.
func (r *Registry) Get(staffID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[staffID]
	if !ok {
		return nil, false
	}
	return e.session, true
}

// Push feeds an uploaded frame into the staff member's session stream.
func (r *Registry) Push(staffID string, frame FrameSample) error {
	r.mu.RLock()
	e, ok := r.sessions[staffID]
	r.mu.RUnlock()
	if !ok {
		return ErrSessionClosed
	}
	return e.source.Push(frame)
}

// Close cancels and removes the staff member's session.
func (r *Registry) Close(staffID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[staffID]; ok {
		e.cancel()
		e.session.Cancel()
		delete(r.sessions, staffID)
	}
}

// Take consumes a captured frame, removing the session. Check-in calls this
// exactly once; a session without a capture is left untouched.
func (r *Registry) Take(staffID string) (FrameSample, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[staffID]
	if !ok {
		return FrameSample{}, false
	}
	frame, captured := e.session.Captured()
	if !captured {
		return FrameSample{}, false
	}
	e.cancel()
	delete(r.sessions, staffID)
	return frame, true
}

// Count returns the number of sessions currently in flight.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
