// Package signal provides small synchronous notification primitives. Listeners
// run on the emitting goroutine, inside the Emit call, in subscription order.
package signal

import "sync"

// Signal is a synchronous multicast notification.
type Signal[T any] struct {
	mu        sync.Mutex
	nextID    int
	listeners []listener[T]
}

type listener[T any] struct {
	id int
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it. Calling the
// returned function more than once is a no-op.
func (s *Signal[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener[T]{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *Signal[T]) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.listeners {
		if l.id == id {
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return
		}
	}
}

// Emit delivers v to a snapshot of the current listeners.
func (s *Signal[T]) Emit(v T) {
	s.mu.Lock()
	snapshot := make([]listener[T], len(s.listeners))
	copy(snapshot, s.listeners)
	s.mu.Unlock()

	for _, l := range snapshot {
		l.fn(v)
	}
}

// Len returns the number of active listeners.
func (s *Signal[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

// Value is a Signal that remembers the last emitted value and replays it to new
// subscribers.
type Value[T any] struct {
	signal Signal[T]
	mu     sync.RWMutex
	value  T
}

// NewValue creates a Value holding initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{value: initial}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Set stores x and notifies subscribers.
func (v *Value[T]) Set(x T) {
	v.mu.Lock()
	v.value = x
	v.mu.Unlock()
	v.signal.Emit(x)
}

// Subscribe calls fn with the current value, then on every Set.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	unsubscribe = v.signal.Subscribe(fn)
	fn(v.Get())
	return unsubscribe
}

// Latch is a one-shot readiness notification. Subscribers registered after the
// latch fired are called immediately.
type Latch struct {
	mu     sync.Mutex
	fired  bool
	signal Signal[struct{}]
}

// Fire marks the latch as fired and notifies current subscribers. Only the first
// call has any effect.
func (l *Latch) Fire() {
	l.mu.Lock()
	if l.fired {
		l.mu.Unlock()
		return
	}
	l.fired = true
	l.mu.Unlock()
	l.signal.Emit(struct{}{})
}

// Fired reports whether Fire has been called.
func (l *Latch) Fired() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fired
}

// Subscribe registers fn to run once the latch fires.
func (l *Latch) Subscribe(fn func()) (unsubscribe func()) {
	if l.Fired() {
		fn()
		return func() {}
	}
	return l.signal.Subscribe(func(struct{}) { fn() })
}
