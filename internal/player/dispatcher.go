package player

import (
	"sync"

	"github.com/abhisek/h5play/internal/xapi"
)

// Event is a named event raised by the player runtime.
type Event struct {
	Name      string
	MountID   string
	Statement *xapi.Statement
}

// Handler receives dispatched events.
type Handler func(Event)

// EventSource is the subscription side of a Dispatcher.
type EventSource interface {
	On(name string, h Handler) *Subscription
}

// Dispatcher fans out named events to registered handlers. Every handler is
// owned by the Subscription returned from On and stays registered until that
// Subscription is closed.
type Dispatcher struct {
	mu       sync.Mutex
	nextID   uint64
	handlers map[string]map[uint64]Handler
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]map[uint64]Handler)}
}

// On registers h for events named name.
func (d *Dispatcher) On(name string, h Handler) *Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	id := d.nextID
	if d.handlers[name] == nil {
		d.handlers[name] = make(map[uint64]Handler)
	}
	d.handlers[name][id] = h

	return &Subscription{dispatcher: d, name: name, id: id}
}

// Emit delivers ev to every handler registered for ev.Name and returns the
// number of handlers called. Handlers run outside the lock, so they may
// subscribe or unsubscribe.
func (d *Dispatcher) Emit(ev Event) int {
	d.mu.Lock()
	hs := make([]Handler, 0, len(d.handlers[ev.Name]))
	for _, h := range d.handlers[ev.Name] {
		hs = append(hs, h)
	}
	d.mu.Unlock()

	for _, h := range hs {
		h(ev)
	}
	return len(hs)
}

// Listeners returns the number of handlers registered for name.
func (d *Dispatcher) Listeners(name string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.handlers[name])
}

func (d *Dispatcher) remove(name string, id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	hs := d.handlers[name]
	delete(hs, id)
	if len(hs) == 0 {
		delete(d.handlers, name)
	}
}

// Subscription is the handle for one registered handler.
type Subscription struct {
	once       sync.Once
	dispatcher *Dispatcher
	name       string
	id         uint64
}

// Close removes the handler. Safe to call more than once.
func (s *Subscription) Close() error {
	if s == nil {
		return nil
	}
	s.once.Do(func() {
		s.dispatcher.remove(s.name, s.id)
	})
	return nil
}
