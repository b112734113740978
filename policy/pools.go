package policy

// slicePool recycles scratch slices between calls. Like the policies
// that own one, it is not safe for concurrent use.
type slicePool[T any] struct {
	free [][]T
}

// get returns a zeroed slice of length n.
func (p *slicePool[T]) get(n int) []T {
	if last := len(p.free) - 1; last >= 0 {
		s := p.free[last]
		p.free = p.free[:last]
		if cap(s) >= n {
			s = s[:n]
			clear(s)
			return s
		}
	}

	return make([]T, n)
}

func (p *slicePool[T]) put(s []T) {
	if cap(s) > 0 {
		p.free = append(p.free, s[:0])
	}
}

// mapPool recycles scratch maps between calls.
type mapPool[K comparable, V any] struct {
	free []map[K]V
}

func (p *mapPool[K, V]) get() map[K]V {
	if last := len(p.free) - 1; last >= 0 {
		m := p.free[last]
		p.free = p.free[:last]
		return m
	}

	return make(map[K]V)
}

func (p *mapPool[K, V]) put(m map[K]V) {
	clear(m)
	p.free = append(p.free, m)
}
