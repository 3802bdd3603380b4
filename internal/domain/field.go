package domain

// FieldState tells a partial update what to do with one field.
type FieldState uint8

const (
	// FieldUnset leaves the stored value untouched.
	FieldUnset FieldState = iota
	// FieldClear removes the stored value.
	FieldClear
	// FieldSet replaces the stored value.
	FieldSet
)

// Field is a three-way optional used by TaskPatch: unset, clear, or set(value).
// The zero value is unset.
type Field[T any] struct {
	state FieldState
	value T
}

// Set returns a Field carrying v.
func Set[T any](v T) Field[T] {
	return Field[T]{state: FieldSet, value: v}
}

// Clear returns a Field that removes the stored value.
func Clear[T any]() Field[T] {
	return Field[T]{state: FieldClear}
}

func (f Field[T]) State() FieldState { return f.state }

func (f Field[T]) IsUnset() bool { return f.state == FieldUnset }

func (f Field[T]) IsClear() bool { return f.state == FieldClear }

// Value returns the carried value and whether the field is set.
func (f Field[T]) Value() (T, bool) {
	return f.value, f.state == FieldSet
}
