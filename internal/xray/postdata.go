package xray

import (
	"fmt"
	"strconv"
	"strings"
)

// PostData is the jf2 representation of a parsed page. Microformats in the
// wild are loosely shaped, so values are read through lenient accessors.
type PostData map[string]any

// Has reports whether key carries a non-empty value.
func (p PostData) Has(key string) bool {
	v, ok := p[key]
	if !ok || v == nil {
		return false
	}

	switch t := v.(type) {
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case []string:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}

// String returns the value of key as a string. Lists yield their first
// element.
func (p PostData) String(key string) string {
	return stringOf(p[key])
}

// Strings returns the value of key as a list of strings. A scalar becomes a
// one element list; embedded objects contribute their url.
func (p PostData) Strings(key string) []string {
	switch t := p[key].(type) {
	case nil:
		return nil
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := stringOf(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := stringOf(t); s != "" {
			return []string{s}
		}
		return nil
	}
}

// Object returns the nested object under key, or nil.
func (p PostData) Object(key string) PostData {
	switch t := p[key].(type) {
	case map[string]any:
		return PostData(t)
	case PostData:
		return t
	case []any:
		if len(t) > 0 {
			if m, ok := t[0].(map[string]any); ok {
				return PostData(m)
			}
		}
	}
	return nil
}

// Int returns the numeric value of key.
func (p PostData) Int(key string) (int, bool) {
	switch t := p[key].(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	case int64:
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// Clone returns a shallow copy.
func (p PostData) Clone() PostData {
	out := make(PostData, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func stringOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		if len(t) == 0 {
			return ""
		}
		return stringOf(t[0])
	case []string:
		if len(t) == 0 {
			return ""
		}
		return t[0]
	case map[string]any:
		if u, ok := t["url"].(string); ok {
			return u
		}
		if v, ok := t["value"].(string); ok {
			return v
		}
		return ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
