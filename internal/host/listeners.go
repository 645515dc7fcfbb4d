// Package host holds what the container implementations share.
package host

import "sync"

// Listeners is an ordered set of callbacks. Add returns a remover that is
// safe to call more than once.
type Listeners[F any] struct {
	mu     sync.Mutex
	nextID uint64
	fns    []entry[F]
}

type entry[F any] struct {
	id uint64
	fn F
}

func (l *Listeners[F]) Add(fn F) (remove func()) {
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	l.fns = append(l.fns, entry[F]{id: id, fn: fn})
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, e := range l.fns {
			if e.id == id {
				l.fns = append(l.fns[:i], l.fns[i+1:]...)
				return
			}
		}
	}
}

// Each calls visit for every listener registered when Each started.
// Listeners may add or remove others while being visited.
func (l *Listeners[F]) Each(visit func(F)) {
	l.mu.Lock()
	snapshot := make([]F, len(l.fns))
	for i, e := range l.fns {
		snapshot[i] = e.fn
	}
	l.mu.Unlock()

	for _, fn := range snapshot {
		visit(fn)
	}
}

func (l *Listeners[F]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fns)
}
