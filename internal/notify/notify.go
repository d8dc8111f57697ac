/*
Package notify implements a small synchronous event hub. Subscribers are
identified by the handle returned from Subscribe and are called in the order
they subscribed.
*/
package notify

// Handle identifies a subscription.
type Handle uint64

// Hub fans events of type E out to its subscribers. The zero value is ready
// to use. A Hub is not safe for concurrent use.
type Hub[E any] struct {
	next  Handle
	order []Handle
	subs  map[Handle]func(E)
}

// Subscribe registers fn and returns the handle needed to unsubscribe it.
func (h *Hub[E]) Subscribe(fn func(E)) Handle {
	if h.subs == nil {
		h.subs = make(map[Handle]func(E))
	}
	h.next++
	h.subs[h.next] = fn
	h.order = append(h.order, h.next)
	return h.next
}

// Unsubscribe removes the subscription and reports whether it existed.
func (h *Hub[E]) Unsubscribe(id Handle) bool {
	if _, ok := h.subs[id]; !ok {
		return false
	}
	delete(h.subs, id)
	for i, o := range h.order {
		if o == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	return true
}

// Emit calls every subscriber with e. A subscriber removed during Emit is
// skipped at once; one added during Emit is first called on the next event.
func (h *Hub[E]) Emit(e E) {
	order := append([]Handle(nil), h.order...)
	for _, id := range order {
		if fn, ok := h.subs[id]; ok {
			fn(e)
		}
	}
}

// Len returns the number of subscribers.
func (h *Hub[E]) Len() int {
	return len(h.order)
}
