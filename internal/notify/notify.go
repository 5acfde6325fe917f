// Package notify provides a payload-free change signal with explicit
// subscription handles.
//
// Example usage:
//
//	var changed notify.Broadcaster
//	sub := changed.Subscribe(func() {
//	    log.Println("something changed")
//	})
//	defer sub.Cancel()
//	changed.Fire()
package notify

// Listener is called synchronously when a signal fires.
type Listener func()

// Broadcaster fans a "something changed" signal out to its subscribers.
// The zero value is ready to use. It is not safe for concurrent use; all
// calls are expected on one goroutine.
type Broadcaster struct {
	next      int
	listeners map[int]Listener
	order     []int
}

// Subscription is the capability returned by Subscribe. Cancel removes the
// listener; calling it more than once is harmless.
type Subscription struct {
	b  *Broadcaster
	id int
}

// Subscribe registers a listener. Listeners run in registration order.
func (b *Broadcaster) Subscribe(fn func()) Subscription {
	if b.listeners == nil {
		b.listeners = make(map[int]Listener)
	}
	b.next++
	b.listeners[b.next] = fn
	b.order = append(b.order, b.next)
	return Subscription{b: b, id: b.next}
}

// Cancel unsubscribes the listener.
func (s Subscription) Cancel() {
	if s.b == nil {
		return
	}
	s.b.remove(s.id)
}

// Active reports whether the subscription is still registered.
func (s Subscription) Active() bool {
	if s.b == nil {
		return false
	}
	_, ok := s.b.listeners[s.id]
	return ok
}

func (b *Broadcaster) remove(id int) {
	if _, ok := b.listeners[id]; !ok {
		return
	}
	delete(b.listeners, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of active subscribers.
func (b *Broadcaster) Len() int {
	return len(b.listeners)
}

// Fire calls every listener subscribed at the time of the call.
func (b *Broadcaster) Fire() {
	ids := make([]int, len(b.order))
	copy(ids, b.order)
	for _, id := range ids {
		if l, ok := b.listeners[id]; ok {
			l()
		}
	}
}
