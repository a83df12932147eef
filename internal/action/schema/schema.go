// Package schema validates untrusted JSON input against declarative object
// schemas. A schema is an ordered list of typed fields; each field carries
// ordered rules and its own messages. Parse never panics: malformed input
// becomes field errors.
package schema

import (
	"bytes"
	"encoding/json"
)

// InputKey holds the error reported when the body is not a JSON object.
const InputKey = "input"

// ExpectedObject is the message reported under InputKey.
const ExpectedObject = "Expected object"

// FieldErrors maps a field name to its failure messages, in rule order.
// Passing fields are absent.
type FieldErrors map[string][]string

func (fe FieldErrors) add(key string, msgs ...string) {
	if len(msgs) == 0 {
		return
	}
	fe[key] = append(fe[key], msgs...)
}

// Field is one typed member of an object schema that decodes into T.
type Field[T any] interface {
	Key() string
	decode(raw json.RawMessage, present bool, dst *T) []string
}

// Schema validates a JSON object and decodes it into T.
type Schema[T any] struct {
	fields []Field[T]
	checks []objectCheck[T]
}

type objectCheck[T any] struct {
	key string
	fn  func(T) bool
	msg string
}

// Object builds a schema from fields, validated in the given order.
func Object[T any](fields ...Field[T]) *Schema[T] {
	return &Schema[T]{fields: fields}
}

// Refine adds a cross-field check that runs only when every field passed.
// A failure is reported under key.
func (s *Schema[T]) Refine(key string, fn func(T) bool, msg string) *Schema[T] {
	s.checks = append(s.checks, objectCheck[T]{key: key, fn: fn, msg: msg})
	return s
}

// Keys returns the field names in declaration order.
func (s *Schema[T]) Keys() []string {
	keys := make([]string, len(s.fields))
	for i, f := range s.fields {
		keys[i] = f.Key()
	}
	return keys
}

// errorKeys lists every key an error can be reported under, in report order.
func (s *Schema[T]) errorKeys() []string {
	keys := s.Keys()
	for _, c := range s.checks {
		keys = append(keys, c.key)
	}
	return keys
}

// Parse validates raw and returns the decoded value, or the field errors.
// Unknown members are ignored.
func (s *Schema[T]) Parse(raw []byte) (T, FieldErrors) {
	var zero T

	obj, ok := decodeObject(raw)
	if !ok {
		return zero, FieldErrors{InputKey: {ExpectedObject}}
	}

	return s.parseObject(obj)
}

func (s *Schema[T]) parseObject(obj map[string]json.RawMessage) (T, FieldErrors) {
	var (
		out  T
		errs = FieldErrors{}
	)

	for _, f := range s.fields {
		raw, present := obj[f.Key()]
		errs.add(f.Key(), f.decode(raw, present, &out)...)
	}

	if len(errs) == 0 {
		for _, c := range s.checks {
			if !c.fn(out) {
				errs.add(c.key, c.msg)
			}
		}
	}

	if len(errs) > 0 {
		var zero T
		return zero, errs
	}
	return out, nil
}

func decodeObject(raw []byte) (map[string]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
