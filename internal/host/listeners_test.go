package host

import (
	"reflect"
	"testing"
)

// TestListenersAddRemove verifies order, removal and remover idempotence.
func TestListenersAddRemove(t *testing.T) {
	var l Listeners[func(int)]
	var got []string

	removeA := l.Add(func(int) { got = append(got, "a") })
	removeB := l.Add(func(int) { got = append(got, "b") })
	l.Add(func(int) { got = append(got, "c") })

	l.Each(func(fn func(int)) { fn(0) })
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}

	removeB()
	removeB()
	got = nil
	l.Each(func(fn func(int)) { fn(0) })
	if want := []string{"a", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("after remove = %v, want %v", got, want)
	}

	removeA()
	if n := l.Len(); n != 1 {
		t.Errorf("Len = %d, want 1", n)
	}
}

// TestListenersRemoveDuringEach verifies a listener can remove itself
// while being visited.
func TestListenersRemoveDuringEach(t *testing.T) {
	var l Listeners[func()]
	calls := 0
	var remove func()
	remove = l.Add(func() {
		calls++
		remove()
	})

	l.Each(func(fn func()) { fn() })
	l.Each(func(fn func()) { fn() })
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if n := l.Len(); n != 0 {
		t.Errorf("Len = %d, want 0", n)
	}
}
