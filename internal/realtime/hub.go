package realtime

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const (
	EventRecordWritten = "record.written"
	EventRecordDeleted = "record.deleted"

	subscriptionBuffer = 4
)

// ChangeEvent tells subscribers that the document on Channel changed. It
// carries no payload; subscribers re-read the document.
type ChangeEvent struct {
	Channel    string `json:"channel"`
	Event      string `json:"event"`
	UserID     string `json:"userId"`
	DateString string `json:"dateString"`
}

type Subscription struct {
	ID       uuid.UUID
	Channel  string
	Outbound chan ChangeEvent
}

// Hub fans change events out to in-process subscribers keyed by channel.
type Hub struct {
	mu            sync.RWMutex
	log           *slog.Logger
	subscriptions map[string]map[*Subscription]struct{}
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		log:           log.With("component", "realtime_hub"),
		subscriptions: make(map[string]map[*Subscription]struct{}),
	}
}

func (hub *Hub) Subscribe(channel string) *Subscription {
	subscription := &Subscription{
		ID:       uuid.New(),
		Channel:  strings.TrimSpace(channel),
		Outbound: make(chan ChangeEvent, subscriptionBuffer),
	}

	hub.mu.Lock()
	defer hub.mu.Unlock()
	subscribers, exists := hub.subscriptions[subscription.Channel]
	if !exists {
		subscribers = make(map[*Subscription]struct{})
		hub.subscriptions[subscription.Channel] = subscribers
	}
	subscribers[subscription] = struct{}{}
	hub.log.Debug("subscribed", "subscription", subscription.ID, "channel", subscription.Channel)
	return subscription
}

// Unsubscribe detaches and closes the subscription. Repeated calls are no-ops.
func (hub *Hub) Unsubscribe(subscription *Subscription) {
	if subscription == nil {
		return
	}
	hub.mu.Lock()
	defer hub.mu.Unlock()

	subscribers, ok := hub.subscriptions[subscription.Channel]
	if !ok {
		return
	}
	if _, ok := subscribers[subscription]; !ok {
		return
	}
	delete(subscribers, subscription)
	if len(subscribers) == 0 {
		delete(hub.subscriptions, subscription.Channel)
	}
	close(subscription.Outbound)
	hub.log.Debug("unsubscribed", "subscription", subscription.ID, "channel", subscription.Channel)
}

// Broadcast never blocks. A full buffer already holds a pending change
// signal, so the event is dropped.
func (hub *Hub) Broadcast(event ChangeEvent) {
	if event.Channel == "" {
		return
	}
	hub.mu.RLock()
	defer hub.mu.RUnlock()

	for subscription := range hub.subscriptions[event.Channel] {
		select {
		case subscription.Outbound <- event:
		default:
			hub.log.Debug("subscription buffer full, coalescing", "subscription", subscription.ID)
		}
	}
}

func (hub *Hub) SubscriberCount(channel string) int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.subscriptions[channel])
}
