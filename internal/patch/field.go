// Package patch provides a three-state optional value for partial updates.
//
// A Field is absent (the key was not sent), null (the key was sent as JSON
// null) or a value. Only fields that were sent are copied onto the stored
// record; absent fields are never touched.
package patch

import (
	"bytes"
	"encoding/json"
)

// Field is a JSON-decodable patch value. The zero Field is absent.
type Field[T any] struct {
	set   bool
	null  bool
	value T
}

// Value returns a provided, non-null Field.
func Value[T any](v T) Field[T] {
	return Field[T]{set: true, value: v}
}

// Null returns a Field that was provided as an explicit null.
func Null[T any]() Field[T] {
	return Field[T]{set: true, null: true}
}

// Absent returns a Field that was not provided.
func Absent[T any]() Field[T] {
	return Field[T]{}
}

// IsSet reports whether the caller provided the field at all.
func (f Field[T]) IsSet() bool { return f.set }

// IsNull reports whether the caller provided an explicit null.
func (f Field[T]) IsNull() bool { return f.set && f.null }

// HasValue reports whether the caller provided a non-null value.
func (f Field[T]) HasValue() bool { return f.set && !f.null }

// Get returns the provided value and whether there is one.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.HasValue()
}

// Ptr returns a pointer to the value, or nil when absent or null.
func (f Field[T]) Ptr() *T {
	if !f.HasValue() {
		return nil
	}
	v := f.value
	return &v
}

// Map transforms a provided value, keeping absent and null as they are.
// An error from fn is returned unchanged.
func Map[T, U any](f Field[T], fn func(T) (U, error)) (Field[U], error) {
	if !f.HasValue() {
		return Field[U]{set: f.set, null: f.null}, nil
	}
	u, err := fn(f.value)
	if err != nil {
		return Field[U]{}, err
	}
	return Value(u), nil
}

// UnmarshalJSON is only called by encoding/json when the key is present.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.null = true
		var zero T
		f.value = zero
		return nil
	}
	f.null = false
	return json.Unmarshal(data, &f.value)
}

// MarshalJSON writes null for absent and null fields.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.HasValue() {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}
