package checks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jansouza/nagios-plugins/pkg/probe"
	"github.com/jansouza/nagios-plugins/pkg/threshold"
	"github.com/jessevdk/go-flags"
	"github.com/mackerelio/checkers"
)

var log = probe.Logger()

// CommonOptions are shared by all probes.
type CommonOptions struct {
	Host     string `short:"H" long:"host" default:"127.0.0.1" description:"Hostname or IP address to check"`
	Port     int    `short:"p" long:"port" description:"Port number (default depends on the probe)"`
	Timeout  int    `short:"t" long:"timeout" default:"10" description:"Connection timeout in seconds"`
	Verbose  []bool `short:"v" long:"verbose" description:"Enable verbose output, repeat for trace output"`
	LogLevel string `long:"loglevel" choice:"off" choice:"error" choice:"info" choice:"debug" choice:"trace" description:"Set log level, logs are written to stderr"`
	Textfile string `long:"textfile" description:"Write metrics into a prometheus node exporter textfile"`
	Config   string `long:"config" description:"Read default options from ini file, command line options take precedence"`
}

func (o *CommonOptions) common() *CommonOptions {
	return o
}

func (o *CommonOptions) timeout() time.Duration {
	if o.Timeout <= 0 {
		return probe.DefaultTimeout
	}

	return time.Duration(o.Timeout) * time.Second
}

// endpoint returns the endpoint for the given default ports.
func (o *CommonOptions) endpoint(plain, secure int, useTLS bool, path string) *probe.Endpoint {
	return &probe.Endpoint{
		Host:    o.Host,
		Port:    probe.DefaultPort(o.Port, plain, secure, useTLS),
		Path:    path,
		TLS:     useTLS,
		Timeout: o.timeout(),
	}
}

// BasicAuthOptions select basic auth either by pre encoded token or by user and password.
type BasicAuthOptions struct {
	Token    string `short:"a" long:"auth" description:"Pre encoded basic authorization token (see basic_encode)"`
	Username string `long:"username" description:"Basic auth username"`
	Password string `long:"password" description:"Basic auth password"`
}

func (o *BasicAuthOptions) credentials() *probe.Credentials {
	if o.Token == "" && o.Username == "" {
		return nil
	}

	return &probe.Credentials{
		Scheme:   probe.AuthBasic,
		Username: o.Username,
		Password: o.Password,
		Token:    o.Token,
	}
}

type options interface {
	common() *CommonOptions
	build() (probe.Collector, *probe.Descriptor, error)
}

// runProbe parses args into opts and runs the pipeline. It writes exactly
// one line to output and returns the exit code.
func runProbe(ctx context.Context, output io.Writer, name string, opts options, args []string) int {
	if err := parseArgs(name, opts, args); err != nil {
		return usageError(output, err)
	}

	common := opts.common()
	probe.SetLogLevel(probe.LogLevelFromVerbosity(len(common.Verbose), common.LogLevel))
	log.Debugf("%s: args: %s", name, strings.Join(args, " "))

	collector, desc, err := opts.build()
	if err != nil {
		return unknown(output, err)
	}

	outcome := probe.Run(ctx, collector, desc)
	if common.Textfile != "" {
		if err := probe.WriteTextfile(common.Textfile, name, outcome); err != nil {
			log.Errorf("%s: %s", name, err.Error())
		}
	}

	return outcome.Write(output)
}

// parseArgs reads the optional ini file first, so command line flags override its values.
func parseArgs(name string, opts interface{}, args []string) error {
	psr := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash) // default flags without flags.PrintErrors
	psr.Name = name

	config, err := configFile(args)
	if err != nil {
		return err
	}
	if config != "" {
		log.Debugf("%s: reading defaults from %s", name, config)
		if err := flags.NewIniParser(psr).ParseFile(config); err != nil {
			return fmt.Errorf("config file %s: %s", config, err.Error())
		}
	}

	rest, err := psr.ParseArgs(args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(rest, " "))
	}

	return nil
}

// configFile extracts --config without validating the other options.
func configFile(args []string) (string, error) {
	pre := &struct {
		Config string `long:"config"`
	}{}
	psr := flags.NewParser(pre, flags.IgnoreUnknown)
	if _, err := psr.ParseArgs(args); err != nil {
		return "", err
	}

	return pre.Config, nil
}

// usageError prints the help text or the argument error, both result in UNKNOWN.
func usageError(output io.Writer, err error) int {
	var fErr *flags.Error
	if errors.As(err, &fErr) && fErr.Type == flags.ErrHelp {
		fmt.Fprintf(output, "%s\n", fErr.Message)

		return probe.ExitCode(checkers.UNKNOWN)
	}

	return unknown(output, err)
}

func unknown(output io.Writer, err error) int {
	report := &probe.Report{Severity: checkers.UNKNOWN, Message: err.Error()}
	fmt.Fprintf(output, "%s\n", report.String())

	return report.ExitCode()
}

// thresholdParser collects the first threshold syntax error.
type thresholdParser struct {
	err error
}

func (p *thresholdParser) parse(flag, def string, dir threshold.Direction) *threshold.Spec {
	spec, err := threshold.Parse(def, dir)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: %s", flag, err.Error())
	}

	return spec
}
