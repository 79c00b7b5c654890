// Package queue provides a ring buffer deque used for graph traversals.
package queue

const minSize = 3

// Queue is a growable ring buffer. Capacity is always a power of 2, size holds capacity - 1 and serves as index mask.
type Queue[T any] struct {
	items      []T
	size       int
	head, tail int
}

func New[T any](items ...T) *Queue[T] {
	l := len(items)
	result := &Queue[T]{tail: l, size: computeSize(l)}
	result.items = make([]T, result.size+1)
	copy(result.items, items)
	return result
}

func (q *Queue[T]) IsEmpty() bool {
	return q.head == q.tail
}

func (q *Queue[T]) Len() int {
	return (q.tail + q.size + 1 - q.head) & q.size
}

// Append adds item to the tail.
func (q *Queue[T]) Append(items ...T) *Queue[T] {
	for _, item := range items {
		q.items[q.tail] = item
		q.tail = (q.tail + 1) & q.size
		if q.tail == q.head {
			q.grow()
		}
	}
	return q
}

// First removes and returns the head item.
func (q *Queue[T]) First() (T, bool) {
	var zero T
	if q.head == q.tail {
		return zero, false
	}

	result := q.items[q.head]
	q.items[q.head] = zero
	q.head = (q.head + 1) & q.size

	if q.head == 0 && q.size > minSize && (q.tail<<2) <= q.size {
		q.size = computeSize(q.tail << 1)
		items := make([]T, q.size+1)
		copy(items, q.items[:q.tail])
		q.items = items
	}

	return result, true
}

// Last removes and returns the tail item.
func (q *Queue[T]) Last() (T, bool) {
	var zero T
	if q.head == q.tail {
		return zero, false
	}

	q.tail = (q.tail - 1) & q.size
	result := q.items[q.tail]
	q.items[q.tail] = zero
	return result, true
}

func computeSize(length int) int {
	if length <= minSize {
		return minSize
	}

	length |= length >> 1
	length |= length >> 2
	length |= length >> 4
	length |= length >> 8
	return length | length>>16
}

func (q *Queue[T]) grow() {
	items := make([]T, (q.size+1)<<1)
	copy(items, q.items[q.head:])
	if q.head > 0 {
		copy(items[q.size+1-q.head:], q.items[:q.head])
	}
	q.head = 0
	q.tail = q.size + 1
	q.size = q.size + q.tail
	q.items = items
}
