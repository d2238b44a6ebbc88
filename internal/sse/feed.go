package sse

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/mcoot/pelada/internal/api/response"
	"github.com/mcoot/pelada/internal/model"
)

// Feed broadcasts roster events to SSE clients and in-process listeners
type Feed struct {
	hub    *Hub
	logger *slog.Logger

	mu          sync.RWMutex
	nextID      int
	subscribers map[int]func(model.RosterEvent)
}

// NewFeed creates a Feed and starts its hub
func NewFeed(logger *slog.Logger) *Feed {
	f := &Feed{
		hub:         NewHub(logger),
		logger:      logger.With(slog.String("component", "roster-feed")),
		subscribers: make(map[int]func(model.RosterEvent)),
	}
	go f.hub.Run()
	return f
}

// Publish sends the event to every SSE client and subscriber.
// Subscribers are called synchronously in the publisher's goroutine.
func (f *Feed) Publish(event model.RosterEvent) {
	data, err := json.Marshal(response.RosterEventFromModel(event))
	if err != nil {
		f.logger.Error("failed to encode roster event",
			slog.String("type", string(event.Type)),
			slog.Any("error", err))
	} else {
		f.hub.BroadcastEvent(string(event.Type), string(data))
	}

	f.mu.RLock()
	subs := make([]func(model.RosterEvent), 0, len(f.subscribers))
	for _, fn := range f.subscribers {
		subs = append(subs, fn)
	}
	f.mu.RUnlock()

	for _, fn := range subs {
		fn(event)
	}
}

// Subscribe registers fn for every future event.
// The returned function removes the subscription.
func (f *Feed) Subscribe(fn func(model.RosterEvent)) (unsubscribe func()) {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subscribers[id] = fn
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subscribers, id)
			f.mu.Unlock()
		})
	}
}

// Hub returns the hub SSE handlers attach clients to
func (f *Feed) Hub() *Hub {
	return f.hub
}

// Close disconnects all SSE clients
func (f *Feed) Close() {
	f.hub.Close()
}
