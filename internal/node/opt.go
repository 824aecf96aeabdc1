package node

import (
	"bytes"
	"encoding/json"
)

var jsonNull = []byte("null")

// Opt is an optional sub-field value. The zero Opt is unset and acts as the
// missing-field marker: it encodes as null in both JSON and YAML, while a set
// Opt holding a zero value encodes as that zero.
type Opt[T any] struct {
	Value T
	Valid bool
}

// Some returns a set Opt holding v.
func Some[T any](v T) Opt[T] {
	return Opt[T]{Value: v, Valid: true}
}

// Get returns the value and whether it is set.
func (o Opt[T]) Get() (T, bool) {
	return o.Value, o.Valid
}

func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return jsonNull, nil
	}
	return json.Marshal(o.Value)
}

// UnmarshalJSON treats a JSON null the same as an absent key.
func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*o = Opt[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

func (o Opt[T]) MarshalYAML() (interface{}, error) {
	if !o.Valid {
		return nil, nil
	}
	return o.Value, nil
}

// Raw is an opaque JSON value kept byte-for-byte. A nil Raw means the source
// did not carry the field; a literal null is kept as the bytes "null".
type Raw []byte

func (r Raw) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return jsonNull, nil
	}
	return r, nil
}

func (r *Raw) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

// MarshalYAML decodes the raw bytes into a generic value so the YAML encoder
// renders the structure rather than a byte sequence.
func (r Raw) MarshalYAML() (interface{}, error) {
	if len(r) == 0 {
		return nil, nil
	}
	var v interface{}
	if err := json.Unmarshal(r, &v); err != nil {
		return nil, err
	}
	return v, nil
}
