package query

// Bound is an optional range endpoint.
type Bound[T any] struct {
	value T
	set   bool
}

// Bounded returns a bound at v.
func Bounded[T any](v T) Bound[T] {
	return Bound[T]{value: v, set: true}
}

// Unbounded returns an open bound.
func Unbounded[T any]() Bound[T] {
	return Bound[T]{}
}

// BoundFromPtr maps nil to an open bound.
func BoundFromPtr[T any](v *T) Bound[T] {
	if v == nil {
		return Unbounded[T]()
	}
	return Bounded(*v)
}

func (b Bound[T]) Get() (T, bool) {
	return b.value, b.set
}
