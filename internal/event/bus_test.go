package event

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestBus_Subscribe(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var received Event
	var wg sync.WaitGroup
	wg.Add(1)

	unsub := bus.Subscribe(ExecOutput, func(e Event) {
		received = e
		wg.Done()
	})
	defer unsub()

	bus.Publish(Event{Type: ExecOutput, Data: ExecOutputData{Stream: "stdout", Data: "hi"}})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if received.Type != ExecOutput {
			t.Errorf("Expected ExecOutput, got %v", received.Type)
		}
		data := received.Data.(ExecOutputData)
		if data.Data != "hi" {
			t.Errorf("Expected 'hi', got %v", data.Data)
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for event")
	}
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var count int32
	var wg sync.WaitGroup
	wg.Add(3)

	unsub := bus.SubscribeAll(func(e Event) {
		atomic.AddInt32(&count, 1)
		wg.Done()
	})
	defer unsub()

	bus.Publish(Event{Type: TreeUpdated})
	bus.Publish(Event{Type: FileSaved})
	bus.Publish(Event{Type: ExecResult})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if got := atomic.LoadInt32(&count); got != 3 {
			t.Errorf("Expected 3 events, got %d", got)
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for events")
	}
}

func TestBus_PublishSync(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var order []string
	unsub := bus.Subscribe(FileSaved, func(e Event) {
		order = append(order, "subscriber")
	})
	defer unsub()

	bus.PublishSync(Event{Type: FileSaved})
	order = append(order, "after")

	if len(order) != 2 || order[0] != "subscriber" || order[1] != "after" {
		t.Errorf("PublishSync should call subscribers before returning, got %v", order)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var count int32
	unsub := bus.Subscribe(ExecError, func(e Event) {
		atomic.AddInt32(&count, 1)
	})

	bus.PublishSync(Event{Type: ExecError})
	unsub()
	bus.PublishSync(Event{Type: ExecError})

	if got := atomic.LoadInt32(&count); got != 1 {
		t.Errorf("Expected exactly 1 delivery, got %d", got)
	}
}

func TestBus_ClosedBusDropsEvents(t *testing.T) {
	bus := NewBus()

	var count int32
	bus.Subscribe(ExecResult, func(e Event) {
		atomic.AddInt32(&count, 1)
	})

	if err := bus.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	bus.PublishSync(Event{Type: ExecResult})
	if got := atomic.LoadInt32(&count); got != 0 {
		t.Errorf("Closed bus should not deliver, got %d", got)
	}

	// Subscribing after close is a no-op
	unsub := bus.Subscribe(ExecResult, func(e Event) {})
	unsub()
}
