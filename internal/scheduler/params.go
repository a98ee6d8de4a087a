package scheduler

import (
	"fmt"
	"strings"
)

// Params holds every scheduling constant. The engine reads nothing else.
type Params struct {
	BaselineIntervalDays int
	MaxIntervalDays      int
	DefaultEase          float64
	MinEase              float64
	MaxEase              float64
	// EaseStep is the ease change per point of personal difficulty away from 3.
	EaseStep        float64
	FailEasePenalty float64
}

// DefaultParams returns the stock scheduling parameters.
func DefaultParams() Params {
	return Params{
		BaselineIntervalDays: 1,
		MaxIntervalDays:      180,
		DefaultEase:          2.5,
		MinEase:              1.3,
		MaxEase:              3.0,
		EaseStep:             0.075,
		FailEasePenalty:      0.2,
	}
}

// Validate reports every inconsistent parameter at once.
func (p Params) Validate() error {
	var problems []string
	if p.BaselineIntervalDays < 1 {
		problems = append(problems, "baseline interval must be at least 1 day")
	}
	if p.MaxIntervalDays < p.BaselineIntervalDays {
		problems = append(problems, "max interval must be >= baseline interval")
	}
	if p.MinEase < 1 {
		problems = append(problems, "min ease must be >= 1.0")
	}
	if p.MaxEase < p.MinEase {
		problems = append(problems, "max ease must be >= min ease")
	}
	if p.DefaultEase < p.MinEase || p.DefaultEase > p.MaxEase {
		problems = append(problems, "default ease must lie within [min ease, max ease]")
	}
	if p.EaseStep < 0 {
		problems = append(problems, "ease step must not be negative")
	}
	if p.FailEasePenalty < 0 {
		problems = append(problems, "fail ease penalty must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid scheduler params: %s", strings.Join(problems, "; "))
	}
	return nil
}
