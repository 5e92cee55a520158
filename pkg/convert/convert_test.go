package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertFloat64E(t *testing.T) {
	tests := []struct {
		in  interface{}
		res float64
		err bool
	}{
		{1.5, 1.5, false},
		{"1.5", 1.5, false},
		{"1", 1, false},
		{" 42\r", 42, false},
		{int64(7), 7, false},
		{"1e7", 1e7, false},
		{"", 0, true},
		{"abc", 0, true},
	}

	for _, tst := range tests {
		res, err := Float64E(tst.in)
		if tst.err {
			require.Error(t, err)
		} else {
			require.NoError(t, err)
		}
		assert.InDeltaf(t, tst.res, res, 0.00001, "Float64E: %s", tst.in)
	}
}

func TestConvertInt64E(t *testing.T) {
	tests := []struct {
		in  interface{}
		res int64
		err bool
	}{
		{"15", 15, false},
		{int64(3), 3, false},
		{2.9, 2, false},
		{"-1", -1, false},
		{"1.5", 0, true},
		{"", 0, true},
	}

	for _, tst := range tests {
		res, err := Int64E(tst.in)
		if tst.err {
			require.Error(t, err)
		} else {
			require.NoError(t, err)
		}
		assert.Equalf(t, tst.res, res, "Int64E: %v", tst.in)
	}
}

func TestNum2String(t *testing.T) {
	tests := []struct {
		in  interface{}
		res string
		err bool
	}{
		{1.00, "1", false},
		{"100", "100", false},
		{"1.50", "1.5", false},
		{"abc", "", true},
		{"10737418240", "10737418240", false},
		{"1.5e4", "15000", false},
		{0.000001, "0.000001", false},
		{int64(-3), "-3", false},
	}

	for _, tst := range tests {
		res, err := Num2StringE(tst.in)
		if tst.err {
			require.Error(t, err)
		} else {
			require.NoError(t, err)
		}
		assert.Equalf(t, tst.res, res, "Num2StringE: %T(%v) -> %v", tst.in, tst.in, res)
	}
}

func TestToPrecision(t *testing.T) {
	tests := []struct {
		in        float64
		precision int
		res       string
	}{
		{0.2500001, 6, "0.25"},
		{0.0123456789, 6, "0.012346"},
		{66.666666, 2, "66.67"},
		{100, 2, "100"},
		{12.6, 0, "13"},
		{2.5, 0, "2"},
		{3.0, 0, "3"},
	}

	for _, tst := range tests {
		assert.Equalf(t, tst.res, Num2String(ToPrecision(tst.in, tst.precision)), "ToPrecision: %v/%d", tst.in, tst.precision)
	}
}
