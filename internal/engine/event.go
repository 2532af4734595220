package engine

// EventWithArg is a multi-cast event carrying one value. Listeners run in
// the order they were added.
type EventWithArg[T any] struct {
	listeners []func(T)
}

// AddListener subscribes fn. A nil fn is ignored.
func (e *EventWithArg[T]) AddListener(fn func(T)) {
	if fn != nil {
		e.listeners = append(e.listeners, fn)
	}
}

func (e *EventWithArg[T]) RemoveAllListeners() {
	e.listeners = nil
}

// Invoke calls every listener with arg. Listeners added during Invoke run
// from the next call on.
func (e *EventWithArg[T]) Invoke(arg T) {
	for _, fn := range e.listeners[:len(e.listeners):len(e.listeners)] {
		fn(arg)
	}
}

func (e *EventWithArg[T]) ListenerCount() int {
	return len(e.listeners)
}
