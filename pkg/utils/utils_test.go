package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUtilsCutKeyValue(t *testing.T) {
	tests := []struct {
		in    string
		sep   string
		key   string
		value string
		ok    bool
	}{
		{"Total Accesses: 42", ": ", "Total Accesses", "42", true},
		{"ServerVersion: Apache/2.4.41 (Unix)\r", ": ", "ServerVersion", "Apache/2.4.41 (Unix)", true},
		{"url: jdbc:mysql://db:3306/app", ": ", "url", "jdbc:mysql://db:3306/app", true},
		{"executable:/usr/bin/redis-server", ":", "executable", "/usr/bin/redis-server", true},
		{"# Server", ":", "", "", false},
		{"", ": ", "", "", false},
	}

	for _, tst := range tests {
		key, value, ok := CutKeyValue(tst.in, tst.sep)
		assert.Equalf(t, tst.ok, ok, "CutKeyValue: %q", tst.in)
		assert.Equalf(t, tst.key, key, "CutKeyValue key: %q", tst.in)
		assert.Equalf(t, tst.value, value, "CutKeyValue value: %q", tst.in)
	}
}

func TestUtilsFieldsN(t *testing.T) {
	assert.Equal(t, []string{"STAT", "version", "1.6.21"}, FieldsN("STAT version 1.6.21", 3))
	assert.Equal(t, []string{"STAT", "libevent", "2.1.12-stable extra"}, FieldsN("STAT libevent 2.1.12-stable extra", 3))
	assert.Equal(t, []string{"END"}, FieldsN("END", 3))
	assert.Nil(t, FieldsN("a b", 0))
}

func TestUtilsTrimQuotes(t *testing.T) {
	assert.Equal(t, "http-nio-8080", TrimQuotes(`"http-nio-8080"`))
	assert.Equal(t, "ajp-nio-8009", TrimQuotes(`'ajp-nio-8009'`))
}

func TestUtilsSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b", ""}, SplitLines("a\r\nb\n\n"))
	assert.Equal(t, []string{"a"}, SplitLines("a"))
	assert.Empty(t, SplitLines(""))
}

func TestUtilsProgramName(t *testing.T) {
	assert.Equal(t, "check_apache", ProgramName("/usr/lib/nagios/plugins/check_apache"))
	assert.Equal(t, "check_redis", ProgramName(`check_redis.exe`))
}
