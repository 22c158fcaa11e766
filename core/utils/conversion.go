package utils

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the day.month.year layout used by the registries.
const DateLayout = "2.1.2006"

// ToInt parses a trimmed decimal string. Anything unparseable, including
// values out of the int range, yields 0.
func ToInt(val string) int {
	i, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return 0
	}
	return i
}

// ToNonNegativeInt is ToInt clamped at zero.
func ToNonNegativeInt(val string) int {
	if i := ToInt(val); i > 0 {
		return i
	}
	return 0
}

// ToDate parses a day.month.year string. Empty or malformed input yields nil.
func ToDate(val string) *time.Time {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, val)
	if err != nil {
		return nil
	}
	return &t
}
