package keypad

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidDisplay is returned when the display text is not a number.
var ErrInvalidDisplay = errors.New("invalid display state")

// ParseDisplay converts display text to a number.
func ParseDisplay(text string) (float64, error) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", text, ErrInvalidDisplay)
	}
	return v, nil
}

// FormatDisplay renders v as the shortest decimal that parses back to v.
// Non-finite values render as "+Inf", "-Inf" and "NaN".
func FormatDisplay(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
