package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidCoordinate is returned for input that is not a finite number.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// ParseDegrees parses a decimal number of degrees, accepting a comma as the
// decimal separator ("40,730610"). No range is enforced.
func ParseDegrees(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrInvalidCoordinate, s)
	}
	return v, nil
}
