package live

import (
	"sync"
)

// Event is a push notification to a single user's live feeds.
type Event struct {
	Kind   string `json:"kind"` // notification, stats
	UserID string `json:"-"`
	ItemID string `json:"item_id,omitempty"`
	Type   string `json:"type,omitempty"`
}

const (
	KindNotification = "notification"
	KindStats        = "stats"
)

// Hub fans events out to per-user subscribers. Sends never block: a
// subscriber that cannot keep up loses events rather than stalling the
// publisher, which runs on the lifecycle engine's request path.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[int]chan Event
	next int
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]chan Event)}
}

// Subscribe registers a live feed for userID. The returned cancel func
// unregisters the feed and closes the channel; it is safe to call twice.
func (h *Hub) Subscribe(userID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 16)
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[int]chan Event)
	}
	id := h.next
	h.next++
	h.subs[userID][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if subs, ok := h.subs[userID]; ok {
				if c, ok := subs[id]; ok {
					delete(subs, id)
					close(c)
				}
				if len(subs) == 0 {
					delete(h.subs, userID)
				}
			}
		})
	}
	return ch, cancel
}

// Publish delivers ev to every live subscriber of ev.UserID.
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subs[ev.UserID] {
		select {
		case ch <- ev:
		default:
		}
	}
}
