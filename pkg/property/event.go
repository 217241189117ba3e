// ABOUTME: Change events and subscriber lists for properties, arrays, sets and trees
// ABOUTME: Dispatch is synchronous, in registration order, tolerant of re-entrant edits

package property

import (
	"strconv"

	"github.com/nainya/proptree/pkg/path"
)

// EventKind identifies what changed
type EventKind uint8

const (
	PropertyAdded EventKind = iota + 1
	PropertyRemoved
	// PropertyIndexChanged is fired by Move and by re-indexing after Remove
	PropertyIndexChanged
	PropertyValueChanged
)

func (k EventKind) String() string {
	switch k {
	case PropertyAdded:
		return "PropertyAdded"
	case PropertyRemoved:
		return "PropertyRemoved"
	case PropertyIndexChanged:
		return "PropertyIndexChanged"
	case PropertyValueChanged:
		return "PropertyValueChanged"
	}
	return "EventKind(" + strconv.Itoa(int(k)) + ")"
}

// Event describes one change. Path is captured when the event is fired.
type Event struct {
	Kind     EventKind
	Property *Property
	Path     path.Path

	// Set for PropertyValueChanged
	OldValue Value
	NewValue Value

	// Set for PropertyIndexChanged
	OldIndex int
	NewIndex int
}

func (e Event) String() string {
	switch e.Kind {
	case PropertyValueChanged:
		return e.Kind.String() + " " + e.Path.String() + ": " + e.OldValue.String() + " -> " + e.NewValue.String()
	case PropertyIndexChanged:
		return e.Kind.String() + " " + e.Path.String() + ": " + strconv.Itoa(e.OldIndex) + " -> " + strconv.Itoa(e.NewIndex)
	}
	return e.Kind.String() + " " + e.Path.String()
}

// Listener receives events
type Listener func(Event)

// Subscription is returned by every On* registration
type Subscription struct {
	fn        Listener
	kind      EventKind // zero matches every kind
	owner     *listeners
	cancelled bool
}

// Cancel unregisters the listener. A listener cancelled while an event is
// being dispatched is not invoked for the rest of that dispatch.
func (s *Subscription) Cancel() {
	if s == nil || s.cancelled {
		return
	}
	s.cancelled = true
	if s.owner != nil {
		s.owner.remove(s)
		s.owner = nil
	}
}

type listeners struct {
	subs []*Subscription
}

func (l *listeners) add(kind EventKind, fn Listener) *Subscription {
	s := &Subscription{fn: fn, kind: kind, owner: l}
	l.subs = append(l.subs, s)
	return s
}

func (l *listeners) remove(s *Subscription) {
	for i, cur := range l.subs {
		if cur == s {
			l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
			return
		}
	}
}

func (l *listeners) dispatch(ev Event) {
	if len(l.subs) == 0 {
		return
	}
	snapshot := make([]*Subscription, len(l.subs))
	copy(snapshot, l.subs)
	for _, s := range snapshot {
		if s.cancelled || (s.kind != 0 && s.kind != ev.Kind) {
			continue
		}
		s.fn(ev)
	}
}

func (l *listeners) clear() {
	for _, s := range l.subs {
		s.cancelled = true
		s.owner = nil
	}
	l.subs = nil
}

func (l *listeners) len() int { return len(l.subs) }
