// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Simulation event types
const (
	BodyLanded        Type = "body_landed"
	BodyTookOff       Type = "body_took_off"
	TrackerEmpty      Type = "tracker_empty"
	LandingDropped    Type = "landing_dropped"
	SimulationStarted Type = "simulation_started"
	SimulationHalted  Type = "simulation_halted"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
	Tick      uint64
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies a registered handler so it can be removed
type Subscription struct {
	eventType Type
	id        uint64
}

type registration struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching.
// Handlers run synchronously on the publishing goroutine, in subscription order.
type Bus struct {
	handlers map[Type][]registration
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]registration),
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], registration{id: b.nextID, handler: handler})
	return Subscription{eventType: eventType, id: b.nextID}
}

// Unsubscribe removes a previously registered handler
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.handlers[sub.eventType]
	for i, r := range regs {
		if r.id == sub.id {
			b.handlers[sub.eventType] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	regs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, r := range regs {
		r.handler(event)
	}
}

// BodyEvent reports a landing state change of a mobile body
type BodyEvent struct {
	BaseEvent
	BodyID      uint64
	CelestialID uint64
}

// NewBodyEvent creates a landing or take-off event
func NewBodyEvent(eventType Type, source interface{}, tick, bodyID, celestialID uint64) *BodyEvent {
	return &BodyEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
			Tick:      tick,
		},
		BodyID:      bodyID,
		CelestialID: celestialID,
	}
}

// HaltEvent reports that the simulation stopped on an unrecoverable error
type HaltEvent struct {
	BaseEvent
	Err error
}

// NewHaltEvent creates a simulation halted event
func NewHaltEvent(source interface{}, tick uint64, err error) *HaltEvent {
	return &HaltEvent{
		BaseEvent: BaseEvent{
			EventType: SimulationHalted,
			Source:    source,
			Tick:      tick,
		},
		Err: err,
	}
}

// NewTickEvent creates an event that carries only its type and tick
func NewTickEvent(eventType Type, source interface{}, tick uint64) *BaseEvent {
	return &BaseEvent{
		EventType: eventType,
		Source:    source,
		Tick:      tick,
	}
}
