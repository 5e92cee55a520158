package probe

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

var errInvalidJSON = errors.New("invalid json document")

// LookupJSON walks a dotted path through nested objects. Path segments are
// used literally, so keys like "used%" need no escaping. Missing
// intermediate keys result in a non existing gjson.Result.
func LookupJSON(doc gjson.Result, path string) gjson.Result {
	res := doc
	for _, segment := range strings.Split(path, ".") {
		if !res.IsObject() {
			return gjson.Result{}
		}
		next, ok := res.Map()[segment]
		if !ok {
			return gjson.Result{}
		}
		res = next
	}

	return res
}

func (d *Dialect) parseJSON(body []byte) (*MetricSet, error) {
	if !gjson.ValidBytes(body) {
		return nil, &ParseError{Dialect: d.Kind.String(), Err: errInvalidJSON}
	}

	doc := gjson.ParseBytes(body)
	metrics := NewMetricSet()
	recognized := 0
	for i := range d.Fields {
		field := &d.Fields[i]
		res := LookupJSON(doc, field.Key)
		for _, alias := range field.Aliases {
			if res.Exists() {
				break
			}
			res = LookupJSON(doc, alias)
		}
		if !res.Exists() || res.IsObject() || res.IsArray() || res.Type == gjson.Null {
			continue
		}
		if setField(metrics, field, res.String()) {
			recognized++
		}
	}

	if err := d.checkRecognized(recognized, ""); err != nil {
		return nil, err
	}

	return metrics, nil
}
