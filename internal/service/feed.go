package service

import (
	"log/slog"

	"github.com/msomdec/novacart/internal/domain"
)

// EventKind distinguishes feed events.
type EventKind string

const (
	EventToast    EventKind = "toast"
	EventNavigate EventKind = "navigate"
)

// Event is one toast or navigation request for a browser instance.
type Event struct {
	Kind     EventKind
	Severity domain.Severity
	Message  string
	Path     string
}

// Feed implements domain.Notifier and domain.Navigator by fanning events out
// to whoever is subscribed, typically the browser's event stream. Events
// published with no subscriber are dropped.
type Feed struct {
	subs observers[Event]
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{}
}

// Notify publishes a toast.
func (f *Feed) Notify(severity domain.Severity, message string) {
	slog.Debug("toast", "severity", severity, "message", message)
	f.subs.publish(Event{Kind: EventToast, Severity: severity, Message: message})
}

// Navigate publishes a navigation request.
func (f *Feed) Navigate(path string) {
	f.subs.publish(Event{Kind: EventNavigate, Path: path})
}

// Subscribe registers fn for every later event.
func (f *Feed) Subscribe(fn func(Event)) (unsubscribe func()) {
	return f.subs.subscribe(fn)
}
