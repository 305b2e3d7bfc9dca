// Package normalize cleans raw cell values and derives the keys used to match
// games, players and column headers across differently formatted sources.
package normalize

import (
	"fmt"
	"strconv"
	"strings"
)

// Clean stringifies a raw value and trims it. nil becomes "".
func Clean(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case fmt.Stringer:
		return strings.TrimSpace(t.String())
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// Name is the game key form: cleaned, whitespace runs collapsed, lower-cased.
func Name(v any) string {
	return strings.ToLower(strings.Join(strings.Fields(Clean(v)), " "))
}

// Header trims and lower-cases a column header without collapsing inner spaces.
func Header(v any) string {
	return strings.ToLower(Clean(v))
}

// Loose keeps only lower-case ASCII letters and digits.
func Loose(v any) string {
	s := strings.ToLower(Clean(v))
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// FindField returns the first field whose normalized header equals one of the
// candidates, trying candidates in priority order.
func FindField(fields []string, candidates []string) (string, bool) {
	lookup := make(map[string]string, len(fields))
	for _, f := range fields {
		lookup[Header(f)] = f
	}
	for _, c := range candidates {
		if f, ok := lookup[c]; ok {
			return f, true
		}
	}
	return "", false
}
