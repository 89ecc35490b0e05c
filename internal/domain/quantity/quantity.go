// Package quantity converts ingredient amounts between decimals and the
// kitchen fractions recipes are written in.
package quantity

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidQuantity indicates an amount that cannot be parsed or scaled.
var ErrInvalidQuantity = errors.New("invalid quantity")

// tolerance is how close a decimal must be to a fraction to be shown as one.
const tolerance = 0.02

// MaxAmount is the largest amount Parse and Scale accept.
const MaxAmount = 1e6

var denominators = []int{2, 3, 4, 8}

// Format renders value as a whole number, a fraction, or a mixed number
// ("2", "1/3", "1 1/2"). Values that match no common fraction are rounded
// to two decimals.
func Format(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return strconv.FormatFloat(value, 'f', -1, 64)
	}
	if value < 0 {
		return "-" + Format(-value)
	}
	whole := math.Floor(value)
	frac := value - whole

	if frac < tolerance {
		return formatWhole(whole)
	}
	if 1-frac < tolerance {
		return formatWhole(whole + 1)
	}

	for _, den := range denominators {
		num := math.Round(frac * float64(den))
		if num == 0 || int(num) == den {
			continue
		}
		if math.Abs(frac-num/float64(den)) < tolerance {
			n, d := reduce(int(num), den)
			if whole == 0 {
				return fmt.Sprintf("%d/%d", n, d)
			}
			return fmt.Sprintf("%s %d/%d", formatWhole(whole), n, d)
		}
	}
	return strconv.FormatFloat(math.Round(value*100)/100, 'f', -1, 64)
}

// Parse reads "2", "0.75", "3/4" or "1 1/2". Amounts are unsigned and at
// most MaxAmount.
func Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidQuantity)
	}

	var v float64
	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		part, err := parsePart(fields[0])
		if err != nil {
			return 0, err
		}
		v = part
	case 2:
		whole, err := parseUint(fields[0])
		if err != nil || !strings.Contains(fields[1], "/") {
			return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
		}
		frac, err := parsePart(fields[1])
		if err != nil {
			return 0, err
		}
		v = whole + frac
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
	}

	if err := checkRange(v); err != nil {
		return 0, fmt.Errorf("%w: %q", err, s)
	}
	return v, nil
}

// Scale converts an amount written for fromServings to toServings.
func Scale(value float64, fromServings, toServings int) (float64, error) {
	if fromServings <= 0 || toServings <= 0 {
		return 0, fmt.Errorf("%w: servings must be positive", ErrInvalidQuantity)
	}
	if err := checkRange(value); err != nil {
		return 0, err
	}
	scaled := value * float64(toServings) / float64(fromServings)
	if err := checkRange(scaled); err != nil {
		return 0, fmt.Errorf("%w: scaled amount", err)
	}
	return scaled, nil
}

func checkRange(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > MaxAmount {
		return fmt.Errorf("%w: out of range", ErrInvalidQuantity)
	}
	return nil
}

func parsePart(s string) (float64, error) {
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := parseUint(num)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
		}
		d, err := parseUint(den)
		if err != nil || d == 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
		}
		return n / d, nil
	}
	// ParseFloat accepts signs, exponents, "NaN" and "Inf"; plain decimals only.
	if strings.TrimLeft(s, "0123456789.") != "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
	}
	return v, nil
}

func parseUint(s string) (float64, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return float64(n), nil
}

func formatWhole(whole float64) string {
	return strconv.FormatFloat(whole, 'f', 0, 64)
}

func reduce(n, d int) (int, int) {
	a, b := n, d
	for b != 0 {
		a, b = b, a%b
	}
	return n / a, d / a
}
