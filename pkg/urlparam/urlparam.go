// Package urlparam reads and writes typed query parameters.
//
// A Param describes one query key with a default. Reading falls back to the
// default when the key is absent or empty; writing escapes the value.
//
// Example:
//
//	name := urlparam.String("name", "Friend")
//	greeting := "Thanks, " + name.From(r.URL.Query()) + "!"
//
//	target := urlparam.Build("/confirmation", name.With("Jane Doe"))
//	// target == "/confirmation?name=Jane+Doe"
package urlparam

import (
	"net/url"
)

// Param is a typed query parameter with a default value.
type Param[T any] struct {
	key          string
	defaultValue T
	parse        func([]string) (T, bool)
	format       func(T) []string
}

// Key returns the query key.
func (p Param[T]) Key() string {
	return p.key
}

// Default returns the default value.
func (p Param[T]) Default() T {
	return p.defaultValue
}

// From returns the parameter's value in values, or the default when the key
// is missing, empty or unparsable.
func (p Param[T]) From(values url.Values) T {
	raw := values[p.key]
	if len(raw) == 0 || (len(raw) == 1 && raw[0] == "") {
		return p.defaultValue
	}
	v, ok := p.parse(raw)
	if !ok {
		return p.defaultValue
	}
	return v
}

// With pairs the parameter with a value for Build.
func (p Param[T]) With(v T) Pair {
	return Pair{Key: p.key, Values: p.format(v)}
}

// Pair is an encoded key and its values.
type Pair struct {
	Key    string
	Values []string
}

// String declares a string parameter.
func String(key, defaultValue string) Param[string] {
	return Param[string]{
		key:          key,
		defaultValue: defaultValue,
		parse:        func(raw []string) (string, bool) { return raw[0], true },
		format:       func(v string) []string { return []string{v} },
	}
}

// Strings declares a repeated parameter (?tag=go&tag=web). Empty entries
// are dropped; the default is nil.
func Strings(key string) Param[[]string] {
	return Param[[]string]{
		key: key,
		parse: func(raw []string) ([]string, bool) {
			out := make([]string, 0, len(raw))
			for _, s := range raw {
				if s != "" {
					out = append(out, s)
				}
			}
			return out, len(out) > 0
		},
		format: func(v []string) []string { return v },
	}
}

// Build joins path with the encoded pairs. Keys are sorted so the result is
// stable; pairs with no values are dropped.
func Build(path string, pairs ...Pair) string {
	values := make(url.Values, len(pairs))
	for _, p := range pairs {
		if len(p.Values) == 0 {
			continue
		}
		values[p.Key] = append(values[p.Key], p.Values...)
	}
	if len(values) == 0 {
		return path
	}
	return path + "?" + values.Encode()
}
