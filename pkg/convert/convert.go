package convert

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Float64E converts anything into a float64
// errors will be returned
func Float64E(raw interface{}) (float64, error) {
	switch val := raw.(type) {
	case float64:
		return val, nil
	case int64:
		return float64(val), nil
	case int:
		return float64(val), nil
	default:
		num, err := strconv.ParseFloat(strings.TrimSpace(fmt.Sprintf("%v", val)), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse float64 value from %v (%T)", raw, raw)
		}

		return num, nil
	}
}

// Int64E converts anything into a int64
// errors will be returned
func Int64E(raw interface{}) (int64, error) {
	switch val := raw.(type) {
	case int64:
		return val, nil
	case int:
		return int64(val), nil
	case float64:
		return int64(val), nil
	default:
		num, err := strconv.ParseInt(strings.TrimSpace(fmt.Sprintf("%v", val)), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse int64 value from %v (%T)", raw, raw)
		}

		return num, nil
	}
}

// Num2String converts any number into a string
// errors will fall back to empty string
func Num2String(raw interface{}) string {
	s, _ := Num2StringE(raw)

	return s
}

// Num2StringE converts any number into a string, floats without fraction
// are printed as integers and exponents are never used.
func Num2StringE(raw interface{}) (string, error) {
	switch num := raw.(type) {
	case float64:
		if math.IsNaN(num) || math.IsInf(num, 0) {
			return "", fmt.Errorf("cannot convert %v into string", num)
		}
		if num == math.Trunc(num) && math.Abs(num) < 1e18 {
			return strconv.FormatInt(int64(num), 10), nil
		}

		return strconv.FormatFloat(num, 'f', -1, 64), nil
	case int64:
		return strconv.FormatInt(num, 10), nil
	case int:
		return strconv.Itoa(num), nil
	default:
		fNum, err := strconv.ParseFloat(strings.TrimSpace(fmt.Sprintf("%v", raw)), 64)
		if err != nil {
			return "", fmt.Errorf("cannot convert %v (%T) into string", raw, raw)
		}

		return Num2StringE(fNum)
	}
}

// ToPrecision converts float64 to given precision, ex.: 5.12345 -> 5.1
// exact ties are rounded to even, ex.: 2.5 -> 2
func ToPrecision(val float64, precision int) float64 {
	if precision < 0 {
		return val
	}
	format := fmt.Sprintf("%%.%df", precision)
	short, _ := strconv.ParseFloat(fmt.Sprintf(format, val), 64)

	return short
}
