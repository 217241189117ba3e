// ABOUTME: Tests for change events and their upward forwarding
// ABOUTME: Verifies ordering, paths, cancellation and structural state at dispatch time

package property

import (
	"testing"
)

type recorder struct {
	events []Event
}

func (r *recorder) listen(ev Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) kinds() []EventKind {
	out := make([]EventKind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

func TestEventsReachTheTree(t *testing.T) {
	tree := NewTree()
	rec := &recorder{}
	tree.OnChanged(rec.listen)

	p, _ := tree.AddString("title", "a")
	p.SetValue(StringValue("b"))
	tree.RemoveProperty("title", 0)

	want := []EventKind{PropertyAdded, PropertyValueChanged, PropertyRemoved}
	got := rec.kinds()
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Event %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	changed := rec.events[1]
	if old, _ := changed.OldValue.AsString(); old != "a" {
		t.Errorf("Expected old value a, got %s", old)
	}
	if nv, _ := changed.NewValue.AsString(); nv != "b" {
		t.Errorf("Expected new value b, got %s", nv)
	}
	if changed.Path.String() != ".title" {
		t.Errorf("Expected path .title, got %s", changed.Path)
	}
}

func TestNestedEventsForwardThroughContainers(t *testing.T) {
	tree := NewTree()
	tree.AddPropertySet("address", nil)
	address, _ := tree.GetPropertySet("address")

	treeRec, setRec, arrRec := &recorder{}, &recorder{}, &recorder{}
	tree.OnPropertyAdded(treeRec.listen)
	address.OnPropertyAdded(setRec.listen)
	tree.GetPropertyArray("address").OnPropertyAdded(arrRec.listen)

	address.AddString("street", "Main")

	for name, rec := range map[string]*recorder{"tree": treeRec, "set": setRec, "array": arrRec} {
		if len(rec.events) != 1 {
			t.Fatalf("Expected 1 event at %s, got %d", name, len(rec.events))
		}
		if got := rec.events[0].Path.String(); got != ".address.street" {
			t.Errorf("Expected .address.street at %s, got %s", name, got)
		}
	}
}

func TestKindFilteredListeners(t *testing.T) {
	tree := NewTree()
	added, changed := &recorder{}, &recorder{}
	tree.OnPropertyAdded(added.listen)
	tree.OnPropertyValueChanged(changed.listen)

	p, _ := tree.AddLong("n", 1)
	p.SetValue(LongValue(2))
	p.SetValue(LongValue(2))

	if len(added.events) != 1 {
		t.Errorf("Expected 1 added event, got %d", len(added.events))
	}
	if len(changed.events) != 1 {
		t.Errorf("Expected unchanged value to be silent, got %d events", len(changed.events))
	}

	p.SetValueForce(LongValue(2))
	if len(changed.events) != 2 {
		t.Errorf("Expected forced set to fire, got %d events", len(changed.events))
	}
}

func TestRemoveFiresIndexChanges(t *testing.T) {
	tree := NewTree()
	tree.AddStrings("x", "a", "b", "c")
	rec := &recorder{}
	tree.OnChanged(rec.listen)

	tree.RemoveProperty("x", 0)

	if len(rec.events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(rec.events))
	}
	if rec.events[0].Kind != PropertyRemoved {
		t.Errorf("Expected removal first, got %s", rec.events[0].Kind)
	}
	for i, ev := range rec.events[1:] {
		if ev.Kind != PropertyIndexChanged {
			t.Errorf("Expected index change, got %s", ev.Kind)
		}
		if ev.OldIndex != i+1 || ev.NewIndex != i {
			t.Errorf("Expected %d -> %d, got %d -> %d", i+1, i, ev.OldIndex, ev.NewIndex)
		}
	}
}

func TestIndexEventsStayCurrentWhenListenersEdit(t *testing.T) {
	tree := NewTree()
	tree.AddStrings("x", "a", "b", "c", "d")
	arr := tree.GetPropertyArray("x")

	// the first removal triggers a second one from inside the listener
	removeAgain := true
	tree.OnPropertyRemoved(func(ev Event) {
		if removeAgain {
			removeAgain = false
			arr.Remove(0)
		}
	})
	var stale []Event
	last := map[*Property]Event{}
	tree.OnPropertyIndexChanged(func(ev Event) {
		if ev.Property.Index() != ev.NewIndex {
			stale = append(stale, ev)
		}
		last[ev.Property] = ev
	})

	if err := arr.Remove(0); err != nil {
		t.Fatalf("Failed to remove: %v", err)
	}

	if got := stringsOf(arr); len(got) != 2 || got[0] != "c" || got[1] != "d" {
		t.Fatalf("Expected [c d], got %v", got)
	}
	assertDenseIndexes(t, arr)
	for _, ev := range stale {
		t.Errorf("Event for %s reports index %d, property is at %d", ev.Property.Path(), ev.NewIndex, ev.Property.Index())
	}
	for _, p := range arr.Properties() {
		ev, ok := last[p]
		if !ok {
			t.Errorf("Expected an index event for %s", p.Path())
			continue
		}
		if ev.NewIndex != p.Index() {
			t.Errorf("Expected last event for %s to end at %d, got %d", p.Path(), p.Index(), ev.NewIndex)
		}
	}
}

func TestMoveFiresIndexChanges(t *testing.T) {
	tree := NewTree()
	ps, _ := tree.AddStrings("x", "a", "b", "c")
	propRec, treeRec := &recorder{}, &recorder{}
	ps[0].OnIndexChanged(propRec.listen)
	tree.OnPropertyIndexChanged(treeRec.listen)

	tree.GetPropertyArray("x").Move(0, 2)

	if len(treeRec.events) != 3 {
		t.Errorf("Expected 3 index changes, got %d", len(treeRec.events))
	}
	if len(propRec.events) != 1 {
		t.Fatalf("Expected moved property to see 1 event, got %d", len(propRec.events))
	}
	if ev := propRec.events[0]; ev.OldIndex != 0 || ev.NewIndex != 2 {
		t.Errorf("Expected 0 -> 2, got %d -> %d", ev.OldIndex, ev.NewIndex)
	}
}

func TestStructureIsUpdatedBeforeEvents(t *testing.T) {
	tree := NewTree()
	tree.AddString("solo", "v")

	var sawArray, sawIndex bool
	tree.OnPropertyRemoved(func(ev Event) {
		sawArray = tree.GetPropertyArray("solo") != nil
	})
	tree.AddStrings("x", "a", "b")
	tree.OnPropertyIndexChanged(func(ev Event) {
		sawIndex = ev.Property.Index() == ev.NewIndex
	})

	tree.RemoveProperty("solo", 0)
	if sawArray {
		t.Error("Expected emptied array to be gone when the removal event fires")
	}

	tree.RemoveProperty("x", 0)
	if !sawIndex {
		t.Error("Expected re-indexing to happen before the index event")
	}
}

func TestCancelDuringDispatch(t *testing.T) {
	tree := NewTree()
	var second *Subscription
	calls := 0

	tree.OnChanged(func(Event) {
		second.Cancel()
	})
	second = tree.OnChanged(func(Event) {
		calls++
	})

	tree.AddString("a", "x")
	tree.AddString("b", "y")

	if calls != 0 {
		t.Errorf("Expected cancelled listener never to run, got %d calls", calls)
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	tree := NewTree()
	rec := &recorder{}
	sub := tree.OnChanged(rec.listen)

	tree.AddString("a", "x")
	sub.Cancel()
	sub.Cancel()
	tree.AddString("b", "y")

	if len(rec.events) != 1 {
		t.Errorf("Expected 1 event before cancel, got %d", len(rec.events))
	}
}

func TestListenerAddedDuringDispatchWaitsForNextEvent(t *testing.T) {
	tree := NewTree()
	late := &recorder{}
	registered := false

	tree.OnChanged(func(Event) {
		if !registered {
			registered = true
			tree.OnChanged(late.listen)
		}
	})

	tree.AddString("a", "x")
	if len(late.events) != 0 {
		t.Errorf("Expected late listener to miss the current event, got %d", len(late.events))
	}
	tree.AddString("b", "y")
	if len(late.events) != 1 {
		t.Errorf("Expected late listener to see the next event, got %d", len(late.events))
	}
}

func TestUnregisteredArrayDoesNotForward(t *testing.T) {
	tree := NewTree()
	rec := &recorder{}
	tree.OnChanged(rec.listen)

	arr, _ := NewPropertyArray(tree.Root(), "pending", TypeString)
	arr.Add(StringValue("a"))
	if len(rec.events) != 0 {
		t.Errorf("Expected no events from an unregistered array, got %d", len(rec.events))
	}

	tree.Root().AddPropertyArray(arr)
	if len(rec.events) != 1 || rec.events[0].Kind != PropertyAdded {
		t.Errorf("Expected registration to announce members, got %v", rec.kinds())
	}
}

func TestDetachedPropertyIsSilent(t *testing.T) {
	tree := NewTree()
	p, _ := tree.AddString("a", "x")
	rec := &recorder{}
	p.OnValueChanged(rec.listen)

	tree.RemoveProperty("a", 0)
	p.SetValue(StringValue("y"))

	if len(rec.events) != 0 {
		t.Errorf("Expected removed property to drop its listeners, got %d events", len(rec.events))
	}
}
