package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Default messages. Every field lets callers override them.
const (
	DefaultRequired      = "Required"
	DefaultExpectString  = "Expected string"
	DefaultExpectNumber  = "Expected number"
	DefaultExpectInteger = "Expected integer"
	DefaultExpectArray   = "Expected array"
	DefaultInvalidUUID   = "Invalid uuid"
)

type rule[V any] struct {
	ok  func(V) bool
	msg string
}

func runRules[V any](v V, rules []rule[V]) []string {
	var msgs []string
	for _, r := range rules {
		if !r.ok(v) {
			msgs = append(msgs, r.msg)
		}
	}
	return msgs
}

// ---------------------------------------------------------------------------
// String
// ---------------------------------------------------------------------------

// StringField is a required string member. Values are trimmed before rules run.
type StringField[T any] struct {
	key         string
	set         func(*T, string)
	requiredMsg string
	typeMsg     string
	notEmpty    bool
	rules       []rule[string]
}

// String declares a required string member.
func String[T any](key string, set func(*T, string)) *StringField[T] {
	return &StringField[T]{key: key, set: set, requiredMsg: DefaultRequired, typeMsg: DefaultExpectString}
}

func (f *StringField[T]) Key() string { return f.key }

// Required sets the message reported when the member is missing.
func (f *StringField[T]) Required(msg string) *StringField[T] {
	f.requiredMsg = msg
	return f
}

// TypeError sets the message reported when the member is not a string.
func (f *StringField[T]) TypeError(msg string) *StringField[T] {
	f.typeMsg = msg
	return f
}

// NotEmpty treats a blank value like a missing one: only the required
// message is reported and the rules are skipped.
func (f *StringField[T]) NotEmpty() *StringField[T] {
	f.notEmpty = true
	return f
}

// MinLen requires at least n characters.
func (f *StringField[T]) MinLen(n int, msg string) *StringField[T] {
	f.rules = append(f.rules, rule[string]{ok: func(s string) bool { return utf8.RuneCountInString(s) >= n }, msg: msg})
	return f
}

// MaxLen allows at most n characters.
func (f *StringField[T]) MaxLen(n int, msg string) *StringField[T] {
	f.rules = append(f.rules, rule[string]{ok: func(s string) bool { return utf8.RuneCountInString(s) <= n }, msg: msg})
	return f
}

// URL requires an absolute http(s) URL.
func (f *StringField[T]) URL(msg string) *StringField[T] {
	f.rules = append(f.rules, rule[string]{ok: isURL, msg: msg})
	return f
}

// Check adds a custom rule.
func (f *StringField[T]) Check(ok func(string) bool, msg string) *StringField[T] {
	f.rules = append(f.rules, rule[string]{ok: ok, msg: msg})
	return f
}

func (f *StringField[T]) decode(raw json.RawMessage, present bool, dst *T) []string {
	if !present {
		return []string{f.requiredMsg}
	}
	s, ok := decodeString(raw)
	if !ok {
		return []string{f.typeMsg}
	}
	if f.notEmpty && s == "" {
		return []string{f.requiredMsg}
	}
	if msgs := runRules(s, f.rules); len(msgs) > 0 {
		return msgs
	}
	f.set(dst, s)
	return nil
}

// OptionalStringField is a string member that may be missing or null.
type OptionalStringField[T any] struct {
	key     string
	set     func(*T, *string)
	typeMsg string
	rules   []rule[string]
}

// OptionalString declares a string member that may be absent. Absent and
// null both decode to nil and skip the rules.
func OptionalString[T any](key string, set func(*T, *string)) *OptionalStringField[T] {
	return &OptionalStringField[T]{key: key, set: set, typeMsg: DefaultExpectString}
}

func (f *OptionalStringField[T]) Key() string { return f.key }

// TypeError sets the message reported when the member is not a string.
func (f *OptionalStringField[T]) TypeError(msg string) *OptionalStringField[T] {
	f.typeMsg = msg
	return f
}

// MinLen requires at least n characters when present.
func (f *OptionalStringField[T]) MinLen(n int, msg string) *OptionalStringField[T] {
	f.rules = append(f.rules, rule[string]{ok: func(s string) bool { return utf8.RuneCountInString(s) >= n }, msg: msg})
	return f
}

// MaxLen allows at most n characters when present.
func (f *OptionalStringField[T]) MaxLen(n int, msg string) *OptionalStringField[T] {
	f.rules = append(f.rules, rule[string]{ok: func(s string) bool { return utf8.RuneCountInString(s) <= n }, msg: msg})
	return f
}

func (f *OptionalStringField[T]) decode(raw json.RawMessage, present bool, dst *T) []string {
	if !present || isNull(raw) {
		return nil
	}
	s, ok := decodeString(raw)
	if !ok {
		return []string{f.typeMsg}
	}
	if msgs := runRules(s, f.rules); len(msgs) > 0 {
		return msgs
	}
	f.set(dst, &s)
	return nil
}

func decodeString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || isNull(raw) {
		return "", false
	}
	return strings.TrimSpace(s), true
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ---------------------------------------------------------------------------
// Int
// ---------------------------------------------------------------------------

// IntField is a required integer member.
type IntField[T any] struct {
	key         string
	set         func(*T, int)
	requiredMsg string
	typeMsg     string
	intMsg      string
	rules       []rule[int]
}

// Int declares a required integer member.
func Int[T any](key string, set func(*T, int)) *IntField[T] {
	return &IntField[T]{
		key: key, set: set,
		requiredMsg: DefaultRequired, typeMsg: DefaultExpectNumber, intMsg: DefaultExpectInteger,
	}
}

func (f *IntField[T]) Key() string { return f.key }

// Required sets the message reported when the member is missing.
func (f *IntField[T]) Required(msg string) *IntField[T] {
	f.requiredMsg = msg
	return f
}

// TypeError sets the message reported when the member is not a number.
func (f *IntField[T]) TypeError(msg string) *IntField[T] {
	f.typeMsg = msg
	return f
}

// Min requires a value >= n.
func (f *IntField[T]) Min(n int, msg string) *IntField[T] {
	f.rules = append(f.rules, rule[int]{ok: func(v int) bool { return v >= n }, msg: msg})
	return f
}

func (f *IntField[T]) decode(raw json.RawMessage, present bool, dst *T) []string {
	if !present {
		return []string{f.requiredMsg}
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil || isNull(raw) {
		return []string{f.typeMsg}
	}
	if n != math.Trunc(n) || n > math.MaxInt32 || n < math.MinInt32 {
		return []string{f.intMsg}
	}
	v := int(n)
	if msgs := runRules(v, f.rules); len(msgs) > 0 {
		return msgs
	}
	f.set(dst, v)
	return nil
}

// ---------------------------------------------------------------------------
// UUID
// ---------------------------------------------------------------------------

// UUIDField is a required string member holding a UUID.
type UUIDField[T any] struct {
	key         string
	set         func(*T, uuid.UUID)
	requiredMsg string
	typeMsg     string
	invalidMsg  string
}

// UUID declares a required UUID member.
func UUID[T any](key string, set func(*T, uuid.UUID)) *UUIDField[T] {
	return &UUIDField[T]{
		key: key, set: set,
		requiredMsg: DefaultRequired, typeMsg: DefaultExpectString, invalidMsg: DefaultInvalidUUID,
	}
}

func (f *UUIDField[T]) Key() string { return f.key }

// Required sets the message reported when the member is missing.
func (f *UUIDField[T]) Required(msg string) *UUIDField[T] {
	f.requiredMsg = msg
	return f
}

// Invalid sets the message reported when the string is not a UUID.
func (f *UUIDField[T]) Invalid(msg string) *UUIDField[T] {
	f.invalidMsg = msg
	return f
}

func (f *UUIDField[T]) decode(raw json.RawMessage, present bool, dst *T) []string {
	if !present {
		return []string{f.requiredMsg}
	}
	s, ok := decodeString(raw)
	if !ok {
		return []string{f.typeMsg}
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return []string{f.invalidMsg}
	}
	f.set(dst, id)
	return nil
}

// ---------------------------------------------------------------------------
// Slice
// ---------------------------------------------------------------------------

// SliceField is a required array of nested objects.
type SliceField[T, E any] struct {
	key         string
	elem        *Schema[E]
	set         func(*T, []E)
	requiredMsg string
	typeMsg     string
	rules       []rule[[]E]
}

// Slice declares a required array whose elements are validated by elem.
// Element failures are reported under the array's key, prefixed with the
// element index and field.
func Slice[T, E any](key string, elem *Schema[E], set func(*T, []E)) *SliceField[T, E] {
	return &SliceField[T, E]{
		key: key, elem: elem, set: set,
		requiredMsg: DefaultRequired, typeMsg: DefaultExpectArray,
	}
}

func (f *SliceField[T, E]) Key() string { return f.key }

// Required sets the message reported when the member is missing.
func (f *SliceField[T, E]) Required(msg string) *SliceField[T, E] {
	f.requiredMsg = msg
	return f
}

// MinItems requires at least n elements.
func (f *SliceField[T, E]) MinItems(n int, msg string) *SliceField[T, E] {
	f.rules = append(f.rules, rule[[]E]{ok: func(v []E) bool { return len(v) >= n }, msg: msg})
	return f
}

// MaxItems allows at most n elements.
func (f *SliceField[T, E]) MaxItems(n int, msg string) *SliceField[T, E] {
	f.rules = append(f.rules, rule[[]E]{ok: func(v []E) bool { return len(v) <= n }, msg: msg})
	return f
}

func (f *SliceField[T, E]) decode(raw json.RawMessage, present bool, dst *T) []string {
	if !present {
		return []string{f.requiredMsg}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || isNull(raw) {
		return []string{f.typeMsg}
	}

	var msgs []string
	out := make([]E, 0, len(items))
	for i, item := range items {
		obj, ok := decodeObject(item)
		if !ok {
			msgs = append(msgs, fmt.Sprintf("%d: %s", i, ExpectedObject))
			continue
		}
		v, errs := f.elem.parseObject(obj)
		if len(errs) > 0 {
			for _, k := range f.elem.errorKeys() {
				for _, m := range errs[k] {
					msgs = append(msgs, fmt.Sprintf("%d.%s: %s", i, k, m))
				}
			}
			continue
		}
		out = append(out, v)
	}
	if len(msgs) > 0 {
		return msgs
	}

	if msgs := runRules(out, f.rules); len(msgs) > 0 {
		return msgs
	}
	f.set(dst, out)
	return nil
}
