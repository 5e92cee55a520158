package main

import (
	"context"
	"os"

	"github.com/jansouza/nagios-plugins/pkg/checks"
)

func main() {
	os.Exit(checks.BasicEncode(context.Background(), os.Stdout, os.Args[1:]))
}
