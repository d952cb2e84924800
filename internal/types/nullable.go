package types

import (
	"bytes"
	"encoding/json"
)

// Nullable is a JSON field that tells an absent key apart from an explicit null.
// Set is true whenever the key was present in the body.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// NullableOf returns a present field holding v
func NullableOf[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Null returns a present field holding null
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Value)
}

// Validatable exposes the value to struct validation, nil when absent or null
func (n Nullable[T]) Validatable() any {
	if n.Value == nil {
		return nil
	}
	return *n.Value
}
