package checks

import (
	"context"
	"fmt"
	"io"
	neturl "net/url"
	"strings"

	"github.com/jansouza/nagios-plugins/pkg/probe"
	"github.com/jansouza/nagios-plugins/pkg/threshold"
)

type tomcatDBCPOpts struct {
	CommonOptions
	BasicAuthOptions
	SSL      bool   `long:"ssl" description:"Enable SSL request, default port changes to 8443"`
	Context  string `short:"u" long:"context" default:"/manager" description:"Manager URL context"`
	JNDIName string `short:"j" long:"jndi" required:"true" description:"JNDI name of the data source, ex.: jdbc/app"`
	PoolUsed string `short:"U" long:"pool-used" description:"Percent of used connections per pool -U WARN,CRIT, ex.: -U 80,90"`
}

// CheckTomcatDBCP queries the connection pools of a data source through the jmxproxy.
func CheckTomcatDBCP(ctx context.Context, output io.Writer, args []string) int {
	return runProbe(ctx, output, "check_tomcat_dbcp", &tomcatDBCPOpts{}, args)
}

// dbcpPoolName returns dbcp_<app> from a jmx object name like
// Catalina:type=DataSource,host=localhost,context=/app,...
func dbcpPoolName(objectName string) string {
	_, app, _ := strings.Cut(objectName, "context=")
	app, _, _ = strings.Cut(app, ",")

	return "dbcp_" + strings.ReplaceAll(app, "/", "")
}

func (o *tomcatDBCPOpts) build() (probe.Collector, *probe.Descriptor, error) {
	thresholds := thresholdParser{}
	poolUsed := thresholds.parse("-U", o.PoolUsed, threshold.HighIsBad)
	if thresholds.err != nil {
		return nil, nil, thresholds.err
	}

	query := neturl.Values{}
	query.Set("qry", fmt.Sprintf(`Catalina:type=DataSource,host=localhost,context=*,class=javax.sql.DataSource,name="%s"`, o.JNDIName))
	ep := o.endpoint(8080, 8443, o.SSL, o.Context+"/jmxproxy/?"+query.Encode())
	ep.Credentials = o.credentials()

	desc := &probe.Descriptor{
		Name: "tomcat_dbcp",
		Dialect: &probe.Dialect{
			Kind:      probe.DialectGrouped,
			GroupKey:  "Name",
			GroupName: dbcpPoolName,
			GroupFields: []probe.Field{
				{Key: "maxIdle", Name: "maxIdle", Kind: probe.KindInt},
				{Key: "minIdle", Name: "minIdle", Kind: probe.KindInt},
				{Key: "evictionPolicyClassName", Name: "evictionPolicyClassName", Kind: probe.KindString},
				{Key: "numActive", Name: "numActive", Kind: probe.KindInt},
				{Key: "numIdle", Name: "numIdle", Kind: probe.KindInt},
				{Key: "jmxName", Name: "jmxName", Kind: probe.KindString},
				{Key: "initialSize", Name: "initialSize", Kind: probe.KindInt},
				{Key: "url", Name: "url", Kind: probe.KindString},
				{Key: "maxTotal", Aliases: []string{"maxActive"}, Name: "maxTotal", Kind: probe.KindInt},
			},
		},
		Derive: func(metrics *probe.MetricSet) error {
			return probe.DeriveGroupPercent(metrics, "pool_used", "numActive", "maxTotal")
		},
		Checks: []probe.Check{
			{Metric: "pool_used", Threshold: poolUsed, Grouped: true},
		},
		Perf: []probe.PerfSpec{
			{Metric: "pool_used", Label: "percent_used-%s", Unit: "%", Threshold: poolUsed, Grouped: true},
			{Metric: "numActive", Label: "used-%s", Min: probe.Bound(0), MaxMetric: "maxTotal", Grouped: true},
		},
		Summary: func(_ *probe.MetricSet, _ *probe.RawPayload) (string, error) {
			return ep.HostPort() + o.Context, nil
		},
	}

	return probe.NewHTTPCollector(ep), desc, nil
}
