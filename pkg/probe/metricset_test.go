package probe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricSetOrder(t *testing.T) {
	metrics := NewMetricSet()
	metrics.SetInt("b", 2)
	metrics.SetFloat("a", 1.5)
	metrics.SetString("c", "text")
	metrics.SetInt("b", 3)

	assert.Equal(t, []string{"b", "a", "c"}, metrics.Names())
	assert.Equal(t, 3, metrics.Len())

	num, ok := metrics.Int("b")
	assert.True(t, ok)
	assert.Equal(t, int64(3), num)

	fNum, ok := metrics.Float("a")
	assert.True(t, ok)
	assert.InDelta(t, 1.5, fNum, 0.00001)

	assert.Equal(t, "text", metrics.Text("c"))
	assert.Equal(t, "", metrics.Text("missing"))
	assert.False(t, metrics.Has("missing"))

	_, ok = metrics.Float("c")
	assert.False(t, ok, "strings are not numeric")
}

func TestMetricSetAbsentIsNotZero(t *testing.T) {
	metrics := NewMetricSet()
	_, ok := metrics.Float("uptime")
	assert.False(t, ok)

	err := metrics.Require("test", "uptime", "version")
	require.Error(t, err)

	var pErr *ParseError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, []string{"uptime", "version"}, pErr.Missing)
	assert.Contains(t, err.Error(), "missing uptime, version")
}

func TestMetricSetGroups(t *testing.T) {
	metrics := NewMetricSet()
	first := metrics.AddGroup("http-nio-8080")
	first.SetInt("busy_thread", 5)
	metrics.AddGroup("ajp-nio-8009").SetInt("busy_thread", 1)

	assert.Same(t, first, metrics.AddGroup("http-nio-8080"))
	require.Len(t, metrics.Groups(), 2)
	assert.Equal(t, "http-nio-8080", metrics.Groups()[0].Name)
	assert.Equal(t, "ajp-nio-8009", metrics.Groups()[1].Name)
	assert.Nil(t, metrics.Group("none"))
	assert.Equal(t, 0, metrics.Len())
	assert.Equal(t, "[http-nio-8080: busy_thread=5] [ajp-nio-8009: busy_thread=1]", metrics.Dump())
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw  string
		kind Kind
		res  string
		err  bool
	}{
		{"42", KindInt, "42", false},
		{"42.0", KindInt, "42", false},
		{"42.5", KindInt, "", true},
		{"0.25", KindFloat, "0.25", false},
		{".000123", KindFloat, "0.000123", false},
		{"abc", KindFloat, "", true},
		{" Apache/2.4 ", KindString, "Apache/2.4", false},
	}

	for _, tst := range tests {
		val, err := ParseValue(tst.raw, tst.kind)
		if tst.err {
			require.Errorf(t, err, "ParseValue(%q)", tst.raw)

			continue
		}
		require.NoErrorf(t, err, "ParseValue(%q)", tst.raw)
		assert.Equalf(t, tst.kind, val.Kind, "kind of %q", tst.raw)
		assert.Equalf(t, tst.res, val.String(), "ParseValue(%q)", tst.raw)
	}
}
