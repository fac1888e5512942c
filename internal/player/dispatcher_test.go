package player

import (
	"sort"
	"sync"
	"testing"
)

func TestDispatcher_EmitToNamedHandlers(t *testing.T) {
	d := NewDispatcher()

	var got []string
	d.On("xAPI", func(ev Event) { got = append(got, "a:"+ev.MountID) })
	d.On("xAPI", func(ev Event) { got = append(got, "b:"+ev.MountID) })
	d.On("other", func(ev Event) { got = append(got, "other") })

	n := d.Emit(Event{Name: "xAPI", MountID: "m1"})

	if n != 2 {
		t.Errorf("expected 2 handlers, got %d", n)
	}
	sort.Strings(got)
	if len(got) != 2 || got[0] != "a:m1" || got[1] != "b:m1" {
		t.Errorf("unexpected deliveries %v", got)
	}
}

func TestDispatcher_EmitWithoutHandlers(t *testing.T) {
	d := NewDispatcher()
	if n := d.Emit(Event{Name: "xAPI"}); n != 0 {
		t.Errorf("expected 0 handlers, got %d", n)
	}
}

func TestSubscription_CloseRemovesOnlyItsHandler(t *testing.T) {
	d := NewDispatcher()

	var a, b int
	subA := d.On("xAPI", func(Event) { a++ })
	d.On("xAPI", func(Event) { b++ })
	if n := d.Listeners("xAPI"); n != 2 {
		t.Fatalf("expected 2 listeners, got %d", n)
	}

	if err := subA.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := subA.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if n := d.Listeners("xAPI"); n != 1 {
		t.Errorf("expected 1 listener, got %d", n)
	}

	d.Emit(Event{Name: "xAPI"})
	if a != 0 || b != 1 {
		t.Errorf("expected a=0 b=1, got a=%d b=%d", a, b)
	}
}

func TestSubscription_RepeatedMountsDoNotAccumulate(t *testing.T) {
	d := NewDispatcher()
	for i := 0; i < 5; i++ {
		sub := d.On("xAPI", func(Event) {})
		if n := d.Listeners("xAPI"); n != 1 {
			t.Errorf("mount %d: expected 1 listener, got %d", i, n)
		}
		sub.Close()
	}
	if n := d.Listeners("xAPI"); n != 0 {
		t.Errorf("expected 0 listeners, got %d", n)
	}
}

func TestSubscription_NilClose(t *testing.T) {
	var s *Subscription
	if err := s.Close(); err != nil {
		t.Errorf("nil subscription close: %v", err)
	}
}

func TestDispatcher_HandlerMayUnsubscribe(t *testing.T) {
	d := NewDispatcher()

	calls := 0
	var sub *Subscription
	sub = d.On("xAPI", func(Event) {
		calls++
		sub.Close()
	})

	d.Emit(Event{Name: "xAPI"})
	d.Emit(Event{Name: "xAPI"})
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDispatcher_Concurrent(t *testing.T) {
	d := NewDispatcher()

	var mu sync.Mutex
	total := 0
	d.On("xAPI", func(Event) {
		mu.Lock()
		total++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := d.On("xAPI", func(Event) {})
			d.Emit(Event{Name: "xAPI"})
			sub.Close()
		}()
	}
	wg.Wait()

	if total != 20 {
		t.Errorf("expected 20 deliveries, got %d", total)
	}
	if n := d.Listeners("xAPI"); n != 1 {
		t.Errorf("expected 1 listener, got %d", n)
	}
}
