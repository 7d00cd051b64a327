package dto

import "encoding/json"

// Optional is a tri-state JSON field: absent from the payload, explicit
// null, or a concrete value. encoding/json only calls UnmarshalJSON for
// keys that appear in the payload, so the zero Optional means "not
// supplied" and update handlers can tell absence apart from null.
type Optional[T any] struct {
	Present bool
	Null    bool
	Value   T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}
