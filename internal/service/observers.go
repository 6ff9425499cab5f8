package service

import "sync"

// observers is a listener list. Listeners run in subscription order on the
// goroutine that publishes.
type observers[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// subscribe registers fn and returns a function that removes it. The
// returned function is safe to call more than once.
func (o *observers[T]) subscribe(fn func(T)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.nextID++
	id := o.nextID
	o.subs = append(o.subs, subscriber[T]{id: id, fn: fn})

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		for i, s := range o.subs {
			if s.id == id {
				o.subs = append(o.subs[:i:i], o.subs[i+1:]...)
				return
			}
		}
	}
}

func (o *observers[T]) publish(v T) {
	o.mu.Lock()
	subs := append([]subscriber[T](nil), o.subs...)
	o.mu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
}

func (o *observers[T]) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.subs)
}
