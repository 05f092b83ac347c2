package session

import "sync"

// Handle is the transport-neutral interface for pushing events to one
// connection. It lets the manager broadcast without knowing about
// WebSocket or SSH.
type Handle interface {
	// ID returns the player id this connection controls.
	ID() string

	// Send delivers an event asynchronously. Must not block.
	Send(evt Event)

	// Done returns a channel that closes when the connection ends.
	Done() <-chan struct{}
}

// ChannelSession is a Handle backed by a buffered Go channel.
type ChannelSession struct {
	id       string
	events   chan Event
	done     chan struct{}
	doneOnce sync.Once
}

// NewChannelSession creates a channel-based handle.
// bufferSize controls how many events queue up before the oldest is dropped.
func NewChannelSession(id string, bufferSize int) *ChannelSession {
	if bufferSize < 1 {
		bufferSize = 64
	}
	return &ChannelSession{
		id:     id,
		events: make(chan Event, bufferSize),
		done:   make(chan struct{}),
	}
}

// ID returns the player id.
func (s *ChannelSession) ID() string {
	return s.id
}

// Send queues an event. When the buffer is full the oldest event is
// dropped; state events supersede each other so nothing is lost.
func (s *ChannelSession) Send(evt Event) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- evt:
	default:
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- evt:
		default:
		}
	}
}

// Events returns the channel the transport reads from.
func (s *ChannelSession) Events() <-chan Event {
	return s.events
}

// Done returns the done channel.
func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Close marks the session as done. Safe to call multiple times.
func (s *ChannelSession) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// Registry tracks connected handles by player id.
// Thread-safe for concurrent access.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Handle
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]Handle),
	}
}

// Register adds a handle, replacing any handle with the same id.
func (r *Registry) Register(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[h.ID()] = h
}

// Unregister removes a handle.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get retrieves a handle by id.
func (r *Registry) Get(id string) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.sessions[id]
	return h, ok
}

// Count returns the number of registered handles.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Broadcast sends evt to every handle except the one with id except.
func (r *Registry) Broadcast(evt Event, except string) {
	r.mu.RLock()
	targets := make([]Handle, 0, len(r.sessions))
	for id, h := range r.sessions {
		if id != except {
			targets = append(targets, h)
		}
	}
	r.mu.RUnlock()

	for _, h := range targets {
		h.Send(evt)
	}
}
