package mocks

import (
	"sync"

	"github.com/mcoot/pelada/internal/model"
)

// MockPublisher records published roster events
type MockPublisher struct {
	mu     sync.Mutex
	events []model.RosterEvent
}

// NewMockPublisher creates a new MockPublisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish records the event
func (p *MockPublisher) Publish(event model.RosterEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

// Events returns a copy of everything published so far
func (p *MockPublisher) Events() []model.RosterEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.RosterEvent, len(p.events))
	copy(out, p.events)
	return out
}

// Types returns the type of each published event in order
func (p *MockPublisher) Types() []model.RosterEventType {
	events := p.Events()
	out := make([]model.RosterEventType, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

// Reset clears recorded events
func (p *MockPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}
