// Package events provides an in-process publish/subscribe bus used to
// announce task mutations and session changes to interested components.
package events

import (
	"sync"
	"time"
)

type Topic string

const (
	TopicTaskCreated   Topic = "task.created"
	TopicTaskUpdated   Topic = "task.updated"
	TopicTaskDeleted   Topic = "task.deleted"
	TopicUserLoggedIn  Topic = "user.logged_in"
	TopicUserLoggedOut Topic = "user.logged_out"
)

// Event is a single notification. TaskID is empty for session events.
type Event struct {
	Topic      Topic
	UserID     uint64
	TaskID     string
	OccurredAt time.Time
}

// Handler receives published events.
type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus delivers events synchronously to subscribers in registration order.
// It is safe for concurrent use.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[Topic][]subscription
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[Topic][]subscription),
	}
}

// Subscribe registers handler for the given topics and returns a function
// that removes the registration.
func (b *Bus) Subscribe(handler Handler, topics ...Topic) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	for _, topic := range topics {
		b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: handler})
	}
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for _, topic := range topics {
				b.subs[topic] = removeSubscription(b.subs[topic], id)
			}
		})
	}
}

// Publish delivers the event to every current subscriber of its topic.
// A nil Bus drops the event.
func (b *Bus) Publish(event Event) {
	if b == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[event.Topic]))
	for _, s := range b.subs[event.Topic] {
		handlers = append(handlers, s.handler)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}

func removeSubscription(subs []subscription, id uint64) []subscription {
	kept := subs[:0:0]
	for _, s := range subs {
		if s.id != id {
			kept = append(kept, s)
		}
	}
	return kept
}
