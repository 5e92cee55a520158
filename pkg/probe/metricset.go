package probe

import (
	"fmt"
	"strings"

	"github.com/jansouza/nagios-plugins/pkg/convert"
)

// Kind is the type of a metric value.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is a single typed metric value.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Str   string
}

func IntValue(num int64) Value {
	return Value{Kind: KindInt, Int: num}
}

func FloatValue(num float64) Value {
	return Value{Kind: KindFloat, Float: num}
}

func StringValue(str string) Value {
	return Value{Kind: KindString, Str: str}
}

// ParseValue converts raw text into a Value of the given kind.
func ParseValue(raw string, kind Kind) (Value, error) {
	switch kind {
	case KindInt:
		num, err := convert.Int64E(raw)
		if err != nil {
			// some services print integral counters as 1.0
			fNum, fErr := convert.Float64E(raw)
			if fErr != nil || fNum != float64(int64(fNum)) {
				return Value{}, err
			}
			num = int64(fNum)
		}

		return IntValue(num), nil
	case KindFloat:
		num, err := convert.Float64E(raw)
		if err != nil {
			return Value{}, err
		}

		return FloatValue(num), nil
	default:
		return StringValue(strings.TrimSpace(raw)), nil
	}
}

// Float64 returns the numeric value, strings are parsed if possible.
func (v Value) Float64() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.Int), true
	case KindFloat:
		return v.Float, true
	default:
		num, err := convert.Float64E(v.Str)
		if err != nil {
			return 0, false
		}

		return num, true
	}
}

// IsNumeric returns true for int and float values.
func (v Value) IsNumeric() bool {
	return v.Kind == KindInt || v.Kind == KindFloat
}

func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return convert.Num2String(v.Int)
	case KindFloat:
		return convert.Num2String(v.Float)
	default:
		return v.Str
	}
}

// MetricSet is an insertion ordered mapping of metric names to values.
// Repeated entities like connectors or pools are kept as named sub sets.
type MetricSet struct {
	names  []string
	values map[string]Value
	groups []*MetricGroup
}

// MetricGroup is one named sub set, ex.: a tomcat connector.
type MetricGroup struct {
	Name    string
	Metrics *MetricSet
}

func NewMetricSet() *MetricSet {
	return &MetricSet{
		values: make(map[string]Value),
	}
}

// Set stores a value, existing names keep their position.
func (ms *MetricSet) Set(name string, val Value) {
	if _, ok := ms.values[name]; !ok {
		ms.names = append(ms.names, name)
	}
	ms.values[name] = val
}

func (ms *MetricSet) SetInt(name string, num int64) {
	ms.Set(name, IntValue(num))
}

func (ms *MetricSet) SetFloat(name string, num float64) {
	ms.Set(name, FloatValue(num))
}

func (ms *MetricSet) SetString(name, str string) {
	ms.Set(name, StringValue(str))
}

// Get returns the value and whether it is present.
func (ms *MetricSet) Get(name string) (Value, bool) {
	val, ok := ms.values[name]

	return val, ok
}

// Has returns true if name is present.
func (ms *MetricSet) Has(name string) bool {
	_, ok := ms.values[name]

	return ok
}

// Float returns the numeric value of name.
func (ms *MetricSet) Float(name string) (float64, bool) {
	val, ok := ms.values[name]
	if !ok {
		return 0, false
	}

	return val.Float64()
}

// Int returns the value of name truncated to an integer.
func (ms *MetricSet) Int(name string) (int64, bool) {
	val, ok := ms.values[name]
	if !ok {
		return 0, false
	}
	if val.Kind == KindInt {
		return val.Int, true
	}
	num, ok := val.Float64()

	return int64(num), ok
}

// Text returns the text representation of name or an empty string.
func (ms *MetricSet) Text(name string) string {
	val, ok := ms.values[name]
	if !ok {
		return ""
	}

	return val.String()
}

// Names returns all metric names in insertion order.
func (ms *MetricSet) Names() []string {
	names := make([]string, len(ms.names))
	copy(names, ms.names)

	return names
}

// Len returns the number of metrics, groups not included.
func (ms *MetricSet) Len() int {
	return len(ms.names)
}

// AddGroup appends a new named sub set and returns it. An existing group
// with the same name is returned instead.
func (ms *MetricSet) AddGroup(name string) *MetricSet {
	if grp := ms.Group(name); grp != nil {
		return grp
	}
	grp := &MetricGroup{Name: name, Metrics: NewMetricSet()}
	ms.groups = append(ms.groups, grp)

	return grp.Metrics
}

// Group returns the sub set with the given name or nil.
func (ms *MetricSet) Group(name string) *MetricSet {
	for _, grp := range ms.groups {
		if grp.Name == name {
			return grp.Metrics
		}
	}

	return nil
}

// Groups returns all sub sets in insertion order.
func (ms *MetricSet) Groups() []*MetricGroup {
	return ms.groups
}

// Require returns a ParseError listing every name which is not present.
func (ms *MetricSet) Require(dialect string, names ...string) error {
	missing := []string{}
	for _, name := range names {
		if !ms.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	return &ParseError{
		Dialect:    dialect,
		Recognized: len(names) - len(missing),
		Required:   len(names),
		Missing:    missing,
	}
}

// Dump returns a single line debug representation.
func (ms *MetricSet) Dump() string {
	parts := make([]string, 0, len(ms.names)+len(ms.groups))
	for _, name := range ms.names {
		parts = append(parts, fmt.Sprintf("%s=%s", name, ms.values[name].String()))
	}
	for _, grp := range ms.groups {
		parts = append(parts, fmt.Sprintf("[%s: %s]", grp.Name, grp.Metrics.Dump()))
	}

	return strings.Join(parts, " ")
}
