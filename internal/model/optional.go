package model

import (
	"bytes"
	"encoding/json"
)

// OptionalString is a string field of a partial update. Set reports whether
// the key was present in the body at all, Null whether its value was JSON
// null. An absent key leaves both false.
type OptionalString struct {
	Value string
	Set   bool
	Null  bool
}

func NewOptionalString(value string) OptionalString {
	return OptionalString{Value: value, Set: true}
}

// UnmarshalJSON only runs for keys present in the body, null included.
// A value of any other JSON type fails with the decoder's
// *json.UnmarshalTypeError so the binder can report it against the field.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		o.Value = ""
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// Supplied reports whether a non-null value was given.
func (o OptionalString) Supplied() bool {
	return o.Set && !o.Null
}

// ptr exposes the value to validator tags: nil when nothing usable was
// supplied, so omitempty skips it.
func (o OptionalString) ptr() *string {
	if !o.Supplied() {
		return nil
	}
	value := o.Value
	return &value
}
