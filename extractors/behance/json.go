package behance

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Accessors over decoded JSON. Each takes keys in fallback order and
// returns the first present value of the wanted shape.

func obj(m map[string]any, keys ...string) map[string]any {
	for _, k := range keys {
		if v, ok := m[k].(map[string]any); ok {
			return v
		}
	}
	return nil
}

func arr(m map[string]any, keys ...string) []any {
	for _, k := range keys {
		if v, ok := m[k].([]any); ok && len(v) > 0 {
			return v
		}
	}
	return nil
}

func str(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// num reads a number or the leading integer of a string, so "1400px" is 1400.
func num(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		n = strings.TrimSpace(n)
		end := 0
		if end < len(n) && (n[end] == '-' || n[end] == '+') {
			end++
		}
		for end < len(n) && n[end] >= '0' && n[end] <= '9' {
			end++
		}
		i, _ := strconv.Atoi(n[:end])
		return i
	}
	return 0
}

func parseDuration(v any) (time.Duration, error) {
	switch d := v.(type) {
	case string:
		return time.ParseDuration(d)
	case int:
		return time.Duration(d) * time.Second, nil
	case int64:
		return time.Duration(d) * time.Second, nil
	case float64:
		return time.Duration(d * float64(time.Second)), nil
	}
	return 0, fmt.Errorf("unsupported value %v", v)
}
