package checks

import (
	"context"
	"fmt"
	"io"

	"github.com/jansouza/nagios-plugins/pkg/probe"
)

type basicEncodeOpts struct {
	Username string `short:"u" long:"username" required:"true" description:"Username"`
	Password string `short:"p" long:"password" required:"true" description:"Password"`
}

// BasicEncode prints the basic authorization token used by the -a option.
func BasicEncode(_ context.Context, output io.Writer, args []string) int {
	opts := &basicEncodeOpts{}
	if err := parseArgs("basic_encode", opts, args); err != nil {
		return usageError(output, err)
	}

	fmt.Fprintf(output, "username: %s\n", opts.Username)
	fmt.Fprintf(output, "password: %s\n", opts.Password)
	fmt.Fprintf(output, "Encoder: %s\n", probe.EncodeBasicAuth(opts.Username, opts.Password))

	return 0
}
