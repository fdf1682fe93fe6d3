package domain

import (
	"math"
	"strings"
)

// NaNSentinel is the textual not-a-value marker that leaks in from spreadsheet
// imports and model output. It is compared case-insensitively.
const NaNSentinel = "nan"

// IsSentinel reports whether s is the "nan" marker, ignoring case and
// surrounding whitespace.
func IsSentinel(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), NaNSentinel)
}

// IsBlank reports whether s carries no data: empty, whitespace or the sentinel.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == "" || IsSentinel(s)
}

// IsBlankValue extends IsBlank to decoded JSON values: nil, numeric NaN and
// blank strings all count as absent.
func IsBlankValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return IsBlank(x)
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	default:
		return false
	}
}

// CleanText returns "" for blank input and the trimmed text otherwise.
func CleanText(s string) string {
	if IsBlank(s) {
		return ""
	}
	return strings.TrimSpace(s)
}

// CoalesceStr returns the first non-blank string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if !IsBlank(v) {
			return v
		}
	}
	return ""
}
