package event

// Queue is a per-frame hand-off list between a producer system and the consumer
// systems registered after it. The producer resets it at the start of its pass.
type Queue[T any] struct {
	items []T
}

func NewQueue[T any](capacity int) *Queue[T] {
	return &Queue[T]{items: make([]T, 0, capacity)}
}

func (q *Queue[T]) Push(v T)   { q.items = append(q.items, v) }
func (q *Queue[T]) Len() int   { return len(q.items) }
func (q *Queue[T]) Items() []T { return q.items }

// Reset empties the queue, keeping its capacity.
func (q *Queue[T]) Reset() {
	var zero T
	for i := range q.items {
		q.items[i] = zero
	}
	q.items = q.items[:0]
}
