package threshold

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mackerelio/checkers"
)

// Direction tells which side of a bound is considered bad.
type Direction int

const (
	// HighIsBad trips when the value reaches the bound: value >= crit, value >= warn.
	HighIsBad Direction = iota

	// LowIsBad trips when the value falls to the bound: value <= crit, value < warn.
	LowIsBad
)

func (d Direction) String() string {
	if d == LowIsBad {
		return "<"
	}

	return ">"
}

// Spec contains an optional warning and critical bound for one metric.
type Spec struct {
	input     string
	Warning   *float64
	Critical  *float64
	Direction Direction
}

var (
	regexDigit = `-?\d+(\.\d+)?`
	regexBound = regexp.MustCompile(fmt.Sprintf(`^%s$`, regexDigit))

	// ErrTooManyBounds is returned when more than warning and critical are given
	ErrTooManyBounds = errors.New("threshold takes at most two values: warn,crit")
)

// String prints the Spec as given on the command line
func (t *Spec) String() string {
	return t.input
}

// Parse constructs a Spec from "warn,crit". A single value sets the warning
// bound only and an empty half leaves that bound unset.
// An empty definition returns nil without error.
func Parse(def string, dir Direction) (*Spec, error) {
	def = strings.TrimSpace(def)
	if def == "" {
		return nil, nil
	}

	var parts []string
	if strings.Contains(def, ",") {
		parts = strings.Split(def, ",")
	} else {
		parts = strings.Fields(def)
	}
	if len(parts) > 2 {
		return nil, ErrTooManyBounds
	}

	spec := &Spec{input: def, Direction: dir}
	for i, raw := range parts {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if !regexBound.MatchString(raw) {
			return nil, fmt.Errorf("threshold syntax not supported: %s", def)
		}
		num, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("threshold parse error: %s", err.Error())
		}
		switch i {
		case 0:
			spec.Warning = &num
		case 1:
			spec.Critical = &num
		}
	}

	return spec, nil
}

// MustParse is like Parse but panics on errors, used for static definitions.
func MustParse(def string, dir Direction) *Spec {
	spec, err := Parse(def, dir)
	if err != nil {
		panic(err.Error())
	}

	return spec
}

// Evaluate compares value against the spec and returns the resulting state
// together with the bound that was crossed. A nil spec is always OK.
func (t *Spec) Evaluate(value float64) (state checkers.Status, bound float64) {
	if t == nil {
		return checkers.OK, 0
	}

	switch t.Direction {
	case LowIsBad:
		if t.Critical != nil && value <= *t.Critical {
			return checkers.CRITICAL, *t.Critical
		}
		if t.Warning != nil && value < *t.Warning {
			return checkers.WARNING, *t.Warning
		}
	default:
		if t.Critical != nil && value >= *t.Critical {
			return checkers.CRITICAL, *t.Critical
		}
		if t.Warning != nil && value >= *t.Warning {
			return checkers.WARNING, *t.Warning
		}
	}

	return checkers.OK, 0
}

// IsSet returns true if at least one bound is configured
func (t *Spec) IsSet() bool {
	return t != nil && (t.Warning != nil || t.Critical != nil)
}
