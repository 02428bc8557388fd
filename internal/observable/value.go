// Package observable provides push-based value holders for in-process
// presentation layers. Values are not safe for concurrent use; callers
// serialize access the same way they serialize the state that owns them.
package observable

// Observer receives the current value of a Value.
type Observer[T any] func(T)

// Reader is the read-only view of a Value handed to observers.
type Reader[T any] interface {
	Get() T
	Subscribe(fn Observer[T]) (cancel func())
}

type subscription[T any] struct {
	id uint64
	fn Observer[T]
}

// Value holds a current value and notifies subscribers synchronously on every Set.
type Value[T any] struct {
	current T
	nextID  uint64
	subs    []subscription[T]
}

// New returns a Value initialised to v.
func New[T any](v T) *Value[T] {
	return &Value[T]{current: v}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	return v.current
}

// Set stores next and notifies every subscriber before returning.
func (v *Value[T]) Set(next T) {
	v.current = next
	// Snapshot so observers may cancel or subscribe while being notified.
	subs := append([]subscription[T](nil), v.subs...)
	for _, s := range subs {
		if !v.active(s.id) {
			continue
		}
		s.fn(next)
	}
}

// Subscribe publishes the current value to fn and then every subsequent change.
// The returned cancel func is idempotent.
func (v *Value[T]) Subscribe(fn Observer[T]) func() {
	if fn == nil {
		return func() {}
	}
	v.nextID++
	id := v.nextID
	v.subs = append(v.subs, subscription[T]{id: id, fn: fn})
	fn(v.current)
	return func() { v.remove(id) }
}

// Observers reports the number of active subscriptions.
func (v *Value[T]) Observers() int {
	return len(v.subs)
}

func (v *Value[T]) active(id uint64) bool {
	for _, s := range v.subs {
		if s.id == id {
			return true
		}
	}
	return false
}

func (v *Value[T]) remove(id uint64) {
	for i, s := range v.subs {
		if s.id == id {
			v.subs = append(v.subs[:i:i], v.subs[i+1:]...)
			return
		}
	}
}
