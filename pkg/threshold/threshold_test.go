package threshold

import (
	"testing"

	"github.com/mackerelio/checkers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 {
	return &f
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		warn  *float64
		crit  *float64
		err   bool
	}{
		{"0.1,0.2", ptr(0.1), ptr(0.2), false},
		{" 80 , 90 ", ptr(80), ptr(90), false},
		{"0.1 0.2", ptr(0.1), ptr(0.2), false},
		{"30", ptr(30), nil, false},
		{",5", nil, ptr(5), false},
		{"10,", ptr(10), nil, false},
		{"-1,-2", ptr(-1), ptr(-2), false},
		{"1,2,3", nil, nil, true},
		{"foo", nil, nil, true},
		{"1:3", nil, nil, true},
		{"1,x", nil, nil, true},
	}

	for _, tst := range tests {
		spec, err := Parse(tst.input, HighIsBad)
		if tst.err {
			require.Errorf(t, err, "Parse(%q)", tst.input)

			continue
		}
		require.NoErrorf(t, err, "Parse(%q)", tst.input)
		require.NotNil(t, spec)
		assert.Equalf(t, tst.warn, spec.Warning, "warning of %q", tst.input)
		assert.Equalf(t, tst.crit, spec.Critical, "critical of %q", tst.input)
	}
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	spec, err := Parse("  ", HighIsBad)
	require.NoError(t, err)
	assert.Nil(t, spec)
	assert.False(t, spec.IsSet())

	state, _ := spec.Evaluate(1e9)
	assert.Equal(t, checkers.OK, state)
}

func TestEvaluateHighIsBad(t *testing.T) {
	t.Parallel()

	spec := MustParse("0.1,0.2", HighIsBad)
	tests := []struct {
		value float64
		state checkers.Status
		bound float64
	}{
		{0.05, checkers.OK, 0},
		{0.1, checkers.WARNING, 0.1},
		{0.15, checkers.WARNING, 0.1},
		{0.2, checkers.CRITICAL, 0.2},
		{0.25, checkers.CRITICAL, 0.2},
	}

	for _, tst := range tests {
		state, bound := spec.Evaluate(tst.value)
		assert.Equalf(t, tst.state, state, "state for %v", tst.value)
		assert.InDeltaf(t, tst.bound, bound, 0.0000001, "bound for %v", tst.value)
	}
}

func TestEvaluateHighIsBadMonotonic(t *testing.T) {
	t.Parallel()

	spec := MustParse("80,90", HighIsBad)
	last := checkers.OK
	for val := 0.0; val <= 120; val += 0.5 {
		state, _ := spec.Evaluate(val)
		assert.GreaterOrEqualf(t, int(state), int(last), "state must not decrease at %v", val)
		last = state
	}
	assert.Equal(t, checkers.CRITICAL, last)
}

func TestEvaluateLowIsBad(t *testing.T) {
	t.Parallel()

	spec := MustParse("10,5", LowIsBad)
	tests := []struct {
		value float64
		state checkers.Status
	}{
		{20, checkers.OK},
		{10, checkers.OK},
		{9, checkers.WARNING},
		{6, checkers.WARNING},
		{5, checkers.CRITICAL},
		{0, checkers.CRITICAL},
	}

	for _, tst := range tests {
		state, _ := spec.Evaluate(tst.value)
		assert.Equalf(t, tst.state, state, "state for %v", tst.value)
	}
}

func TestEvaluateWarningOnly(t *testing.T) {
	t.Parallel()

	spec := MustParse("30", HighIsBad)
	state, bound := spec.Evaluate(1000)
	assert.Equal(t, checkers.WARNING, state)
	assert.InDelta(t, 30, bound, 0.0000001)
}

func TestDirectionString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ">", HighIsBad.String())
	assert.Equal(t, "<", LowIsBad.String())
}
