package probe

import (
	"fmt"
)

// DefaultMinKeys is the number of recognized keys a payload needs to be usable.
const DefaultMinKeys = 3

// DialectKind selects the parser used for a payload.
type DialectKind int

const (
	// DialectKeyValue is one "key<sep>value" pair per line, optionally with a scoreboard key.
	DialectKeyValue DialectKind = iota

	// DialectStatusBlock is the fixed position whitespace block of the nginx stub status.
	DialectStatusBlock

	// DialectJSON extracts dotted paths from a json document.
	DialectJSON

	// DialectXML reads one fixed element plus repeated group elements.
	DialectXML

	// DialectGrouped is a key-value stream where a header key starts a new group.
	DialectGrouped
)

func (k DialectKind) String() string {
	switch k {
	case DialectKeyValue:
		return "key-value"
	case DialectStatusBlock:
		return "status block"
	case DialectJSON:
		return "json"
	case DialectXML:
		return "xml"
	case DialectGrouped:
		return "grouped key-value"
	}

	return fmt.Sprintf("DialectKind(%d)", int(k))
}

// Field maps one source key to a metric.
type Field struct {
	Key     string   // source key, json path or xml attribute
	Aliases []string // alternative source keys
	Name    string   // metric name
	Kind    Kind
}

func (f *Field) matches(key string) bool {
	if key == f.Key {
		return true
	}
	for _, alias := range f.Aliases {
		if key == alias {
			return true
		}
	}

	return false
}

// Dialect describes how to turn a payload into a MetricSet.
// Which attributes are used depends on Kind.
type Dialect struct {
	Kind DialectKind

	// Fields are extracted from the top level of the payload.
	Fields []Field

	// GroupFields are extracted for every group (grouped and xml dialect).
	GroupFields []Field

	// Separator splits key and value, defaults to ": ".
	Separator string

	// LinePrefix is stripped from each line, lines without it are ignored.
	LinePrefix string

	// Scoreboard names the key whose value is tallied per worker state.
	Scoreboard string

	// GroupKey is the key starting a new group in the grouped dialect.
	GroupKey string

	// Element is the xml element holding the top level attributes.
	Element string

	// GroupElement is the repeated xml element, GroupChild its nested element
	// carrying the group attributes and GroupNameAttr its name attribute.
	GroupElement  string
	GroupChild    string
	GroupNameAttr string

	// GroupName converts a raw group header or name attribute into the group name.
	GroupName func(raw string) string

	// MinKeys is the number of fields which must be recognized, per group for
	// grouped payloads. Defaults to DefaultMinKeys.
	MinKeys int
}

// Parse turns body into a MetricSet. It returns a ParseError if the payload
// does not contain enough known keys.
func (d *Dialect) Parse(body []byte) (*MetricSet, error) {
	switch d.Kind {
	case DialectKeyValue:
		return d.parseKeyValue(body)
	case DialectStatusBlock:
		return d.parseStatusBlock(body)
	case DialectJSON:
		return d.parseJSON(body)
	case DialectXML:
		return d.parseXML(body)
	case DialectGrouped:
		return d.parseGrouped(body)
	}

	return nil, &ParseError{Dialect: d.Kind.String(), Err: fmt.Errorf("unsupported dialect")}
}

func (d *Dialect) minKeys() int {
	if d.MinKeys > 0 {
		return d.MinKeys
	}

	return DefaultMinKeys
}

func (d *Dialect) separator() string {
	if d.Separator != "" {
		return d.Separator
	}

	return ": "
}

func (d *Dialect) groupName(raw string) string {
	if d.GroupName != nil {
		return d.GroupName(raw)
	}

	return raw
}

// checkRecognized returns a ParseError if less than minKeys fields were found.
func (d *Dialect) checkRecognized(recognized int, group string) error {
	if recognized >= d.minKeys() {
		return nil
	}

	return &ParseError{
		Dialect:    d.Kind.String(),
		Group:      group,
		Recognized: recognized,
		Required:   d.minKeys(),
	}
}

// setField parses raw according to field and stores it. Returns false if the
// value could not be converted.
func setField(metrics *MetricSet, field *Field, raw string) bool {
	val, err := ParseValue(raw, field.Kind)
	if err != nil {
		log.Debugf("ignoring %s: %s", field.Name, err.Error())

		return false
	}
	metrics.Set(field.Name, val)

	return true
}

func findField(fields []Field, key string) *Field {
	for i := range fields {
		if fields[i].matches(key) {
			return &fields[i]
		}
	}

	return nil
}
