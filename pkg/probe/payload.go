package probe

import (
	"time"

	"github.com/jansouza/nagios-plugins/pkg/convert"
)

// RawPayload is the unparsed answer of one collector round trip.
type RawPayload struct {
	Body       []byte
	Elapsed    time.Duration
	StatusCode int
	URL        string
}

// ResponseTime returns the elapsed time in seconds rounded to 6 decimals.
func (p *RawPayload) ResponseTime() float64 {
	return convert.ToPrecision(p.Elapsed.Seconds(), PrecisionTime)
}
