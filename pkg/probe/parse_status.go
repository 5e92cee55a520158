package probe

import (
	"strings"

	"github.com/jansouza/nagios-plugins/pkg/utils"
)

// parseStatusBlock reads the nginx stub status:
//
//	Active connections: 291
//	server accepts handled requests
//	 16630948 16630948 31070465
//	Reading: 6 Writing: 179 Waiting: 106
func (d *Dialect) parseStatusBlock(body []byte) (*MetricSet, error) {
	metrics := NewMetricSet()
	recognized := 0
	lines := utils.SplitLines(string(body))

	set := func(name, raw string) {
		val, err := ParseValue(raw, KindInt)
		if err != nil {
			log.Debugf("ignoring %s: %s", name, err.Error())

			return
		}
		metrics.Set(name, val)
		recognized++
	}

	if len(lines) > 0 {
		if _, value, ok := strings.Cut(lines[0], ":"); ok {
			set("active", value)
		}
	}

	if len(lines) > 2 {
		counters := strings.Fields(lines[2])
		for i, name := range []string{"accepts", "handled", "requests"} {
			if i < len(counters) {
				set(name, counters[i])
			}
		}
	}

	if len(lines) > 3 {
		tokens := strings.Fields(lines[3])
		for i, name := range []string{"reading", "writing", "waiting"} {
			offset := 2*i + 1
			if offset < len(tokens) {
				set(name, tokens[offset])
			}
		}
	}

	if err := d.checkRecognized(recognized, ""); err != nil {
		return nil, err
	}

	return metrics, nil
}
