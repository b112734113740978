package td

// Buffer is a fixed-capacity FIFO ring. Pushing onto a full
// buffer overwrites the oldest element.
type Buffer[T any] struct {
	items []T
	start int
	n     int
}

func NewBuffer[T any](capacity int) *Buffer[T] {
	return &Buffer[T]{items: make([]T, capacity)}
}

func (b *Buffer[T]) Len() int { return b.n }
func (b *Buffer[T]) Cap() int { return len(b.items) }

func (b *Buffer[T]) Push(x T) {
	if b.n < len(b.items) {
		b.items[(b.start+b.n)%len(b.items)] = x
		b.n++
	} else {
		b.items[b.start] = x
		b.start = (b.start + 1) % len(b.items)
	}
}

// At returns the i'th oldest element.
func (b *Buffer[T]) At(i int) T {
	if i < 0 || i >= b.n {
		panic("buffer index out of range")
	}

	return b.items[(b.start+i)%len(b.items)]
}

// PopFront removes and returns the oldest element.
func (b *Buffer[T]) PopFront() T {
	x := b.At(0)
	var zero T
	b.items[b.start] = zero
	b.start = (b.start + 1) % len(b.items)
	b.n--
	return x
}

func (b *Buffer[T]) Reset() {
	var zero T
	for i := range b.items {
		b.items[i] = zero
	}

	b.start, b.n = 0, 0
}
