package domain

import (
	"bytes"
	"encoding/json"
)

// Object is a string-keyed mapping that remembers insertion order.
// OpenAPI documents are decoded into Objects so that paths, methods and
// status codes are walked in the order the author wrote them.
//
// Values are *Object, []any, string, int64, float64, bool or nil.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject creates an empty Object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Set stores a value. New keys are appended; existing keys keep their position.
func (o *Object) Set(key string, value any) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// GetObject returns the nested Object under key.
func (o *Object) GetObject(key string) (*Object, bool) {
	v, ok := o.Get(key)
	if !ok {
		return nil, false
	}
	obj, ok := v.(*Object)
	return obj, ok && obj != nil
}

// GetString returns the string under key.
func (o *Object) GetString(key string) (string, bool) {
	v, ok := o.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetArray returns the array under key.
func (o *Object) GetArray(key string) ([]any, bool) {
	v, ok := o.Get(key)
	if !ok {
		return nil, false
	}
	arr, ok := v.([]any)
	return arr, ok
}

// GetBool returns the boolean under key, or false.
func (o *Object) GetBool(key string) bool {
	v, _ := o.Get(key)
	b, _ := v.(bool)
	return b
}

// StringOr returns the string under key, or def when absent or not a string.
func (o *Object) StringOr(key, def string) string {
	if s, ok := o.GetString(key); ok {
		return s
	}
	return def
}

// MarshalJSON encodes the Object with its keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// AsObject returns v as an *Object when it is one.
func AsObject(v any) (*Object, bool) {
	obj, ok := v.(*Object)
	return obj, ok && obj != nil
}
