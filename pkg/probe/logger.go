package probe

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kdar/factorlog"
)

// define all available log level.
const (
	// LogVerbosityNone disables logging.
	LogVerbosityNone = 0

	// LogVerbosityDefault sets the default log level.
	LogVerbosityDefault = 1

	// LogVerbosityDebug sets the debug log level.
	LogVerbosityDebug = 2

	// LogVerbosityTrace sets trace log level.
	LogVerbosityTrace = 3
)

var (
	DateTimeLogFormat = `[%{Date} %{Time "15:04:05.000"}]`
	LogFormat         = `[%{Severity}][pid:%{Pid}][%{ShortFile}:%{Line}] %{Message}`

	// stdout belongs to the plugin output line, logs always go to stderr
	log = factorlog.New(os.Stderr, BuildFormatter(DateTimeLogFormat+LogFormat))
)

func init() {
	SetLogLevel("off")
}

// SetLogLevel switches the package logger to one of: off, error, info, debug, trace.
func SetLogLevel(level string) {
	switch strings.ToLower(level) {
	case "off":
		log.SetMinMaxSeverity(factorlog.StringToSeverity("PANIC"), factorlog.StringToSeverity("PANIC"))
		log.SetVerbosity(LogVerbosityNone)
	case "error", "info":
		log.SetMinMaxSeverity(factorlog.StringToSeverity(strings.ToUpper(level)), factorlog.StringToSeverity("PANIC"))
		log.SetVerbosity(LogVerbosityDefault)
	case "debug":
		log.SetMinMaxSeverity(factorlog.StringToSeverity("DEBUG"), factorlog.StringToSeverity("PANIC"))
		log.SetVerbosity(LogVerbosityDebug)
	case "trace":
		log.SetMinMaxSeverity(factorlog.StringToSeverity("TRACE"), factorlog.StringToSeverity("PANIC"))
		log.SetVerbosity(LogVerbosityTrace)
	case "":
	default:
		log.Errorf("unknown log level: %s", level)
	}
}

// LogLevelFromVerbosity translates the number of -v flags into a level name.
func LogLevelFromVerbosity(verbose int, fallback string) string {
	switch {
	case verbose >= 2:
		return "trace"
	case verbose == 1:
		return "debug"
	case fallback != "":
		return fallback
	}

	return "off"
}

// SetLogOutput redirects log output, used by tests to capture logs.
func SetLogOutput(w io.Writer) {
	log.SetOutput(w)
}

func BuildFormatter(format string) *factorlog.StdFormatter {
	format = strings.ReplaceAll(format, "%{Pid}", fmt.Sprintf("%d", os.Getpid()))

	return (factorlog.NewStdFormatter(format))
}

// Logger returns the shared logger used by all probes.
func Logger() *factorlog.FactorLog {
	return log
}
