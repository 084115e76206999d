package core

import (
	"fmt"
	"sync"
)

// A Severity classifies events reported during loading or expansion.
type Severity int

const (
	// Warning events are informational; they never fail anything by themselves.
	Warning Severity = iota
	// Error events describe a failure; depending on the caller's keep-going
	// posture they may or may not abort the overall command.
	Error
)

// String returns the conventional name of this severity.
func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// An Event is a single diagnostic, optionally attached to a location.
type Event struct {
	Severity Severity
	Message  string
	Location Location
}

// String formats the event for display.
func (e Event) String() string {
	if e.Location.IsZero() {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}

// Warningf creates a warning event.
func Warningf(format string, args ...interface{}) Event {
	return Event{Severity: Warning, Message: fmt.Sprintf(format, args...)}
}

// Errorf creates an error event.
func Errorf(format string, args ...interface{}) Event {
	return Event{Severity: Error, Message: fmt.Sprintf(format, args...)}
}

// ErrorfAt creates an error event attached to a location.
func ErrorfAt(location Location, format string, args ...interface{}) Event {
	return Event{Severity: Error, Message: fmt.Sprintf(format, args...), Location: location}
}

// An EventHandler consumes diagnostics as they're discovered. Handle is
// fire-and-forget; nothing is returned to the reporting code. Handlers that
// decorate another one simply embed it (there's no base type to extend).
type EventHandler interface {
	Handle(Event)
}

// A LogHandler writes events to the standard logger.
type LogHandler struct{}

// Handle implements the EventHandler interface.
func (LogHandler) Handle(e Event) {
	if e.Severity == Warning {
		log.Warning("%s", e)
	} else {
		log.Error("%s", e)
	}
}

// A CollectingHandler remembers every event it's given. It's threadsafe and
// mostly useful in tests and in tools that render diagnostics at the end.
type CollectingHandler struct {
	mutex  sync.Mutex
	events []Event
}

// Handle implements the EventHandler interface.
func (h *CollectingHandler) Handle(e Event) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.events = append(h.events, e)
}

// Events returns a copy of everything collected so far.
func (h *CollectingHandler) Events() []Event {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	ret := make([]Event, len(h.events))
	copy(ret, h.events)
	return ret
}

// Errors returns the collected events of Error severity.
func (h *CollectingHandler) Errors() []Event {
	ret := []Event{}
	for _, e := range h.Events() {
		if e.Severity == Error {
			ret = append(ret, e)
		}
	}
	return ret
}

// HasErrors returns true if any Error severity event has been collected.
func (h *CollectingHandler) HasErrors() bool {
	return len(h.Errors()) > 0
}
