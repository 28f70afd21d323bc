// pkg/event/event_test.go
package event

import (
	"errors"
	"sync"
	"testing"
)

func TestBus_PublishOrder(t *testing.T) {
	bus := NewEventBus()
	var got []string

	bus.Subscribe(BodyLanded, func(Event) { got = append(got, "first") })
	bus.Subscribe(BodyLanded, func(Event) { got = append(got, "second") })
	bus.Subscribe(BodyTookOff, func(Event) { got = append(got, "other") })

	bus.Publish(NewBodyEvent(BodyLanded, nil, 3, 1, 2))

	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("handlers ran as %v, expected [first second]", got)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus()
	calls := map[string]int{}

	a := bus.Subscribe(TrackerEmpty, func(Event) { calls["a"]++ })
	bus.Subscribe(TrackerEmpty, func(Event) { calls["b"]++ })

	bus.Publish(NewTickEvent(TrackerEmpty, nil, 1))
	bus.Unsubscribe(a)
	bus.Unsubscribe(a)
	bus.Publish(NewTickEvent(TrackerEmpty, nil, 2))

	if calls["a"] != 1 || calls["b"] != 2 {
		t.Errorf("calls = %v, expected a=1 b=2", calls)
	}
}

func TestBus_NoSubscribers(t *testing.T) {
	bus := NewEventBus()
	bus.Publish(NewTickEvent(SimulationStarted, nil, 0))
}

func TestEvents_Fields(t *testing.T) {
	source := "sim"

	landed := NewBodyEvent(BodyLanded, source, 10, 4, 2)
	if landed.GetType() != BodyLanded || landed.GetSource() != source {
		t.Errorf("unexpected event header %+v", landed.BaseEvent)
	}
	if landed.Tick != 10 || landed.BodyID != 4 || landed.CelestialID != 2 {
		t.Errorf("unexpected body event %+v", landed)
	}

	cause := errors.New("boom")
	halt := NewHaltEvent(source, 11, cause)
	if halt.GetType() != SimulationHalted || !errors.Is(halt.Err, cause) {
		t.Errorf("unexpected halt event %+v", halt)
	}
}

func TestBus_ConcurrentSubscribe(t *testing.T) {
	bus := NewEventBus()
	var wg sync.WaitGroup
	var mu sync.Mutex
	count := 0

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Subscribe(BodyLanded, func(Event) {
				mu.Lock()
				count++
				mu.Unlock()
			})
		}()
	}
	wg.Wait()

	bus.Publish(NewBodyEvent(BodyLanded, nil, 0, 0, 0))
	if count != 20 {
		t.Errorf("count = %d, expected 20", count)
	}
}
