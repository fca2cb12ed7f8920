package repository

import "sync"

// ChangeHub tells in-process watchers that a collection changed
type ChangeHub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan struct{}
}

func NewChangeHub() *ChangeHub {
	return &ChangeHub{subs: make(map[string]map[int]chan struct{})}
}

// Subscribe returns a notification channel for the collection and its release function
func (h *ChangeHub) Subscribe(collection string) (<-chan struct{}, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan struct{}, 1)
	if h.subs[collection] == nil {
		h.subs[collection] = make(map[int]chan struct{})
	}
	h.subs[collection][id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[collection], id)
			if len(h.subs[collection]) == 0 {
				delete(h.subs, collection)
			}
		})
	}
}

// Publish coalesces notifications: a watcher that has not caught up sees one signal
func (h *ChangeHub) Publish(collection string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs[collection] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
