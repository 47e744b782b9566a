package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// unitInches maps a length suffix to its size in inches.
var unitInches = map[string]float64{
	"in": 1,
	"cm": 1 / 2.54,
	"mm": 1 / 25.4,
	"pt": 1.0 / 72,
	"pc": 12.0 / 72,
}

// ParseLength converts a length such as "3.5in", "8.9cm", "252pt" or "6"
// into inches. A bare number is read as inches.
func ParseLength(s string) (float64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	scale := 1.0
	for suffix, inches := range unitInches {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
			scale = inches
			break
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid length %q", s)
	}
	return v * scale, nil
}
