package probe

import (
	"strings"

	"github.com/jansouza/nagios-plugins/pkg/utils"
)

// ScoreboardStates maps scoreboard characters to metric names.
var ScoreboardStates = []struct {
	Char byte
	Name string
}{
	{'_', "waiting_for_connection"},
	{'S', "starting_up"},
	{'R', "reading_request"},
	{'W', "sending_reply"},
	{'K', "keepalive"},
	{'D', "dns_lookup"},
	{'C', "closing_connection"},
	{'L', "logging"},
	{'G', "gracefully_finishing"},
	{'I', "idle_cleanup_of_worker"},
	{'.', "open_slots"},
}

// TallyScoreboard counts the workers per state.
func TallyScoreboard(metrics *MetricSet, board string) {
	for _, state := range ScoreboardStates {
		metrics.SetInt(state.Name, int64(strings.Count(board, string(state.Char))))
	}
}

// splitLine applies prefix and separator rules to a single line.
func (d *Dialect) splitLine(line string) (key, value string, ok bool) {
	if d.LinePrefix != "" {
		if !strings.HasPrefix(line, d.LinePrefix) {
			return "", "", false
		}
		line = strings.TrimPrefix(line, d.LinePrefix)
	}

	if d.separator() == " " {
		fields := utils.FieldsN(line, 2)
		if len(fields) != 2 {
			return "", "", false
		}

		return fields[0], strings.TrimSpace(fields[1]), true
	}

	return utils.CutKeyValue(line, d.separator())
}

func (d *Dialect) parseKeyValue(body []byte) (*MetricSet, error) {
	metrics := NewMetricSet()
	recognized := map[string]bool{}

	for _, line := range utils.SplitLines(string(body)) {
		key, value, ok := d.splitLine(line)
		if !ok {
			continue
		}

		if d.Scoreboard != "" && key == d.Scoreboard {
			TallyScoreboard(metrics, value)
			recognized[key] = true

			continue
		}

		field := findField(d.Fields, key)
		if field == nil {
			continue
		}
		if setField(metrics, field, value) {
			recognized[field.Name] = true
		}
	}

	if err := d.checkRecognized(len(recognized), ""); err != nil {
		return nil, err
	}

	return metrics, nil
}

func (d *Dialect) parseGrouped(body []byte) (*MetricSet, error) {
	metrics := NewMetricSet()
	var current *MetricSet
	var currentName string
	recognized := map[string]map[string]bool{}
	order := []string{}

	for _, line := range utils.SplitLines(string(body)) {
		key, value, ok := d.splitLine(line)
		if !ok {
			continue
		}

		if key == d.GroupKey {
			currentName = d.groupName(value)
			current = metrics.AddGroup(currentName)
			if _, ok := recognized[currentName]; !ok {
				recognized[currentName] = map[string]bool{}
				order = append(order, currentName)
			}

			continue
		}

		// keys before the first header do not belong to any group
		if current == nil {
			continue
		}

		field := findField(d.GroupFields, key)
		if field == nil {
			continue
		}
		if setField(current, field, value) {
			recognized[currentName][field.Name] = true
		}
	}

	if len(order) == 0 {
		return nil, &ParseError{Dialect: d.Kind.String(), Required: d.minKeys(), Missing: []string{d.GroupKey}}
	}

	for _, name := range order {
		if err := d.checkRecognized(len(recognized[name]), name); err != nil {
			return nil, err
		}
	}

	return metrics, nil
}
