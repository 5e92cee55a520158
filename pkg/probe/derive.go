package probe

import (
	"errors"
	"fmt"

	"github.com/jansouza/nagios-plugins/pkg/convert"
)

// Decimal places used when reporting values.
const (
	PrecisionTime    = 6
	PrecisionPercent = 2
	PrecisionCount   = 0
)

// Uptime splits seconds into days, hours and minutes.
func Uptime(seconds int64) (days, hours, minutes int64) {
	if seconds < 0 {
		seconds = 0
	}
	minutes = seconds / 60
	hours = minutes / 60
	minutes %= 60
	days = hours / 24
	hours %= 24

	return days, hours, minutes
}

// FormatUptime returns "D days, H hours, M minutes".
func FormatUptime(seconds int64) string {
	days, hours, minutes := Uptime(seconds)

	return fmt.Sprintf("%d days, %d hours, %d minutes", days, hours, minutes)
}

// PercentUsed returns used*100/max rounded to 2 decimals, 0 if max is not positive.
func PercentUsed(used, max float64) float64 {
	if max <= 0 {
		return 0
	}

	return convert.ToPrecision(used*100/max, PrecisionPercent)
}

// HitRate returns hits*100/attempts rounded to 2 decimals, exactly 100 if
// there were no attempts.
func HitRate(hits, attempts float64) float64 {
	if attempts == 0 {
		return 100
	}

	return convert.ToPrecision(hits*100/attempts, PrecisionPercent)
}

// Ratio returns num/den rounded to 2 decimals, 0 if den is 0.
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}

	return convert.ToPrecision(num/den, PrecisionPercent)
}

// DerivePercent stores PercentUsed(used, max) as name. Both inputs must be present.
func DerivePercent(metrics *MetricSet, name, used, max string) error {
	if err := metrics.Require("derived", used, max); err != nil {
		return err
	}
	usedVal, ok1 := metrics.Float(used)
	maxVal, ok2 := metrics.Float(max)
	if !ok1 || !ok2 {
		return &ParseError{Dialect: "derived", Err: fmt.Errorf("%s or %s is not numeric", used, max)}
	}
	metrics.SetFloat(name, PercentUsed(usedVal, maxVal))

	return nil
}

// DeriveGroupPercent applies DerivePercent to every group.
func DeriveGroupPercent(metrics *MetricSet, name, used, max string) error {
	for _, grp := range metrics.Groups() {
		if err := DerivePercent(grp.Metrics, name, used, max); err != nil {
			var pErr *ParseError
			if errors.As(err, &pErr) {
				pErr.Group = grp.Name
			}

			return err
		}
	}

	return nil
}

// DeriveHitRate stores HitRate(hits, attempts) as name. If misses is not
// empty, attempts are calculated as hits+misses.
func DeriveHitRate(metrics *MetricSet, name, hits, attempts, misses string) error {
	required := []string{hits}
	if misses != "" {
		required = append(required, misses)
	} else {
		required = append(required, attempts)
	}
	if err := metrics.Require("derived", required...); err != nil {
		return err
	}

	hitVal, _ := metrics.Float(hits)
	var total float64
	if misses != "" {
		missVal, _ := metrics.Float(misses)
		total = hitVal + missVal
	} else {
		total, _ = metrics.Float(attempts)
	}
	metrics.SetFloat(name, HitRate(hitVal, total))

	return nil
}

// DeriveUptime returns the formatted uptime of the given seconds metric.
func DeriveUptime(metrics *MetricSet, seconds string) (string, error) {
	if err := metrics.Require("derived", seconds); err != nil {
		return "", err
	}
	secs, _ := metrics.Int(seconds)

	return FormatUptime(secs), nil
}
