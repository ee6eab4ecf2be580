// Package hexoffset parses and formats file offsets written by hand in profiles
package hexoffset

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse parses an offset string into an int64.
// Handles formats like "0x161D7F", "0X161d7f", "161D7Fh" and plain decimal "1449343".
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty offset")
	}

	base := 10
	digits := strings.ReplaceAll(s, "_", "")
	switch {
	case strings.HasPrefix(digits, "0x"), strings.HasPrefix(digits, "0X"):
		base = 16
		digits = digits[2:]
	case strings.HasSuffix(digits, "h"), strings.HasSuffix(digits, "H"):
		base = 16
		digits = digits[:len(digits)-1]
	}

	val, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid offset %q: %w", s, err)
	}
	if val < 0 {
		return 0, fmt.Errorf("invalid offset %q: negative", s)
	}
	return val, nil
}

// Format formats an offset as an upper-case hex string with a 0x prefix
func Format(off int64) string {
	return fmt.Sprintf("0x%X", off)
}
