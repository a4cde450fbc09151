package normalize

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// parse decodes raw into generic JSON values, keeping numbers verbatim
func parse(raw []byte) (any, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}

// lookup walks v through object keys (string) and array indexes (int).
// Any miss returns nil.
func lookup(v any, path ...any) any {
	cur := v
	for _, step := range path {
		switch key := step.(type) {
		case string:
			obj, ok := cur.(map[string]any)
			if !ok {
				return nil
			}
			cur = obj[key]
		case int:
			arr, ok := cur.([]any)
			if !ok || key < 0 || key >= len(arr) {
				return nil
			}
			cur = arr[key]
		default:
			return nil
		}
		if cur == nil {
			return nil
		}
	}
	return cur
}

// falsy reports null, false, "" and numeric zero. Lists and objects, even
// empty ones, are never falsy.
func falsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	default:
		return false
	}
}

// text renders a scalar as display text; empty and non-scalar values fall back
// to the sentinel
func text(v any) string {
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return NotAvailable
		}
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return NotAvailable
	}
}

// optionalText is text without the sentinel
func optionalText(v any) string {
	s := text(v)
	if s == NotAvailable {
		return ""
	}
	return s
}

// firstText returns the first key of obj holding a usable scalar
func firstText(obj any, keys ...string) string {
	for _, k := range keys {
		if s := text(lookup(obj, k)); s != NotAvailable {
			return s
		}
	}
	return NotAvailable
}

// count renders a non-negative integer; anything else is 0
func count(v any) int {
	var n int64
	switch t := v.(type) {
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			f, ferr := t.Float64()
			if ferr != nil {
				return 0
			}
			i = int64(f)
		}
		n = i
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0
		}
		n = i
	default:
		return 0
	}
	if n < 0 {
		return 0
	}
	return int(n)
}

// sequence returns v as a slice, or nil
func sequence(v any) []any {
	arr, _ := v.([]any)
	return arr
}

// rawItem re-encodes a decoded item for Offer.Source
func rawItem(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
