// Package query builds percent-encoded query strings and urlencoded form
// bodies from loosely typed parameter maps.
package query

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Encode serializes params into a query string of key=value pairs joined by
// "&", percent-encoding each key and value. Keys are emitted in sorted order
// so output is deterministic.
func Encode(params map[string]any) string {
	if len(params) == 0 {
		return ""
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(stringify(params[k])))
	}
	return b.String()
}

// EncodeForm serializes data into an application/x-www-form-urlencoded body.
// Entries with falsy values are skipped.
func EncodeForm(data map[string]any) string {
	if len(data) == 0 {
		return ""
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := url.Values{}
	for _, k := range keys {
		v := data[k]
		if IsFalsy(v) {
			continue
		}
		values.Set(k, stringify(v))
	}
	return values.Encode()
}

// IsFalsy reports whether v is one of the zero-ish values skipped by form
// encoding: nil, empty string, false, or numeric zero.
func IsFalsy(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case int:
		return val == 0
	case int8:
		return val == 0
	case int16:
		return val == 0
	case int32:
		return val == 0
	case int64:
		return val == 0
	case uint:
		return val == 0
	case uint8:
		return val == 0
	case uint16:
		return val == 0
	case uint32:
		return val == 0
	case uint64:
		return val == 0
	case float32:
		return val == 0
	case float64:
		return val == 0
	default:
		return false
	}
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
