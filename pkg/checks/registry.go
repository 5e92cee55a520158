package checks

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jansouza/nagios-plugins/pkg/probe"
	"github.com/jansouza/nagios-plugins/pkg/utils"
	"github.com/mackerelio/checkers"
)

// CheckFunc runs a probe, writes its output line and returns the exit code.
type CheckFunc func(ctx context.Context, output io.Writer, args []string) int

// AvailableChecks contains all probes by program name.
var AvailableChecks = map[string]CheckFunc{
	"check_apache":      CheckApache,
	"check_nginx":       CheckNginx,
	"check_tomcat":      CheckTomcat,
	"check_tomcat_dbcp": CheckTomcatDBCP,
	"check_jboss":       CheckJBoss,
	"check_solr":        CheckSolr,
	"check_memcached":   CheckMemcached,
	"check_redis":       CheckRedis,
	"basic_encode":      BasicEncode,
}

// Lookup returns the probe for name, the check_ prefix is optional.
func Lookup(name string) (CheckFunc, bool) {
	name = strings.ToLower(name)
	if check, ok := AvailableChecks[name]; ok {
		return check, true
	}
	check, ok := AvailableChecks["check_"+name]

	return check, ok
}

// Names returns the sorted list of probe names.
func Names() []string {
	names := make([]string, 0, len(AvailableChecks))
	for name := range AvailableChecks {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Dispatch selects the probe by the program name (when called through a
// symlink) or by the first argument.
func Dispatch(ctx context.Context, output io.Writer, argv0 string, args []string) int {
	if check, ok := Lookup(utils.ProgramName(argv0)); ok {
		return check(ctx, output, args)
	}

	if len(args) > 0 {
		if check, ok := Lookup(args[0]); ok {
			return check(ctx, output, args[1:])
		}
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	report := &probe.Report{
		Severity: checkers.UNKNOWN,
		Message:  fmt.Sprintf("unknown probe %q, available: %s", name, strings.Join(Names(), ", ")),
	}
	fmt.Fprintf(output, "%s\n", report.String())

	return report.ExitCode()
}
