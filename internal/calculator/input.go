package calculator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mmynk/splitshare/internal/models"
)

// ErrUnknownStrategy is returned by ParseStrategy for unsupported names.
var ErrUnknownStrategy = errors.New("unknown split strategy")

// ParseStrategy converts user text into a Strategy. Matching ignores case and
// surrounding whitespace.
func ParseStrategy(s string) (models.Strategy, error) {
	switch models.Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case models.StrategyEqual:
		return models.StrategyEqual, nil
	case models.StrategyPercentage:
		return models.StrategyPercentage, nil
	case models.StrategyExact:
		return models.StrategyExact, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// ParseNumber coerces user-typed numeric input. Anything that does not parse
// as a number, including NaN, is treated as 0. Infinities pass through so the
// edit functions can clamp or reject them.
//
// Examples:
//
//	ParseNumber("12.5")  -> 12.5
//	ParseNumber(" 30 ")  -> 30
//	ParseNumber("")      -> 0
//	ParseNumber("abc")   -> 0
func ParseNumber(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}
