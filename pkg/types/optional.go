package types

import "encoding/json"

// Optional distinguishes a field that was omitted from one that was sent as
// null or with a value. Omitted fields keep their stored value; explicit null
// clears a nullable field.
type Optional[T any] struct {
	Present bool
	Value   *T
}

// Some wraps a concrete value.
func Some[T any](value T) Optional[T] {
	return Optional[T]{Present: true, Value: &value}
}

// Null marks the field as explicitly cleared.
func Null[T any]() Optional[T] {
	return Optional[T]{Present: true}
}

// IsNull reports whether the field was sent as an explicit null.
func (o Optional[T]) IsNull() bool {
	return o.Present && o.Value == nil
}

// UnmarshalJSON is only invoked for keys present in the payload, which is what
// makes the absent/null distinction observable after decoding.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	o.Value = &value
	return nil
}

// MarshalJSON round-trips the tri-state back to JSON.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Present || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
