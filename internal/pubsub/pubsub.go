package pubsub

import "sync"

// Hub fans a value out to every subscriber. Subscribers run synchronously on
// the publishing goroutine, in subscription order.
type Hub[T any] struct {
	mu   sync.RWMutex
	next uint64
	ids  []uint64
	subs map[uint64]func(T)
}

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[uint64]func(T))}
}

// Subscribe registers fn and returns a func that removes it.
func (h *Hub[T]) Subscribe(fn func(T)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	id := h.next
	h.ids = append(h.ids, id)
	h.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() { h.remove(id) })
	}
}

func (h *Hub[T]) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, id)
	for i, v := range h.ids {
		if v == id {
			h.ids = append(h.ids[:i], h.ids[i+1:]...)
			break
		}
	}
}

func (h *Hub[T]) Publish(v T) {
	h.mu.RLock()
	fns := make([]func(T), 0, len(h.ids))
	for _, id := range h.ids {
		fns = append(fns, h.subs[id])
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(v)
	}
}

func (h *Hub[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
