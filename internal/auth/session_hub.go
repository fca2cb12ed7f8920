package auth

import (
	"sync"
	"time"
)

// SessionEventKind says how a user's session changed
type SessionEventKind string

const (
	SessionSignedIn  SessionEventKind = "signed_in"
	SessionSignedOut SessionEventKind = "signed_out"
)

// SessionEvent is published whenever a user signs in or out
type SessionEvent struct {
	Kind   SessionEventKind
	UserID string
	// SessionID is empty when every session of the user is affected
	SessionID string
	At        time.Time
}

// Ends reports whether the event terminates the given session
func (e SessionEvent) Ends(sessionID string) bool {
	return e.Kind == SessionSignedOut && (e.SessionID == "" || e.SessionID == sessionID)
}

// SessionHub fans session changes out to per-user subscribers
type SessionHub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan SessionEvent
}

func NewSessionHub() *SessionHub {
	return &SessionHub{subs: make(map[string]map[int]chan SessionEvent)}
}

// Subscribe returns the user's session stream and a function that ends the subscription
func (h *SessionHub) Subscribe(userID string) (<-chan SessionEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan SessionEvent, 4)
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[int]chan SessionEvent)
	}
	h.subs[userID][id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[userID][id]; !ok {
				return
			}
			delete(h.subs[userID], id)
			if len(h.subs[userID]) == 0 {
				delete(h.subs, userID)
			}
			close(ch)
		})
	}
}

// Publish delivers the event to the user's subscribers without blocking
func (h *SessionHub) Publish(ev SessionEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs[ev.UserID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// CloseAll ends every subscription. Used on shutdown so open streams return.
func (h *SessionHub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, subs := range h.subs {
		for _, ch := range subs {
			close(ch)
		}
	}
	h.subs = make(map[string]map[int]chan SessionEvent)
}
