// Package jsontype holds JSON wire types shared by the transport packages.
package jsontype

import "encoding/json"

// Optional records whether a JSON field was present. A present null or
// empty string clears the value; an absent field leaves it unchanged.
type Optional[T any] struct {
	Value *T
	Set   bool
}

func (o Optional[T]) IsZero() bool {
	return !o.Set
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" || string(data) == `""` {
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

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
