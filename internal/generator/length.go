package generator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseLength converts raw user input into a length within the generator's range.
// Integral numeric forms such as "8.0" and "1e1" are accepted.
func (g *Generator) ParseLength(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: length is required", ErrInvalidLength)
	}

	if n, err := strconv.Atoi(raw); err == nil {
		if err := g.ValidateLength(n); err != nil {
			return 0, err
		}
		return n, nil
	}

	// Overflowing input parses as ±Inf with ErrRange and is reported by the range checks.
	f, err := strconv.ParseFloat(raw, 64)
	if (err != nil && !errors.Is(err, strconv.ErrRange)) || math.IsNaN(f) {
		return 0, fmt.Errorf("%w: length must be a number", ErrInvalidLength)
	}
	if f < float64(g.minLength) {
		return 0, fmt.Errorf("%w: length must be at least %d", ErrInvalidLength, g.minLength)
	}
	if f > float64(g.maxLength) {
		return 0, fmt.Errorf("%w: length must be at most %d", ErrInvalidLength, g.maxLength)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: length must be a whole number", ErrInvalidLength)
	}
	return int(f), nil
}
