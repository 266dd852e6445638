package util

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidColor = errors.New("invalid color format")

var hexColorFormat = regexp.MustCompile(`^#(?:[0-9a-f]{3}){1,2}$`)

// FormatColor renders a 24-bit color value as #RRGGBB.
func FormatColor(value uint32) string {
	return fmt.Sprintf("#%06X", value)
}

// ParseColor parses "#RGB" or "#RRGGBB" into a 24-bit value.
func ParseColor(s string) (uint32, error) {
	lower := strings.ToLower(s)
	if !hexColorFormat.MatchString(lower) {
		return 0, ErrInvalidColor
	}
	hex := lower[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, ErrInvalidColor
	}
	return uint32(value), nil
}
