package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jansouza/nagios-plugins/pkg/checks"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	rc := checks.Dispatch(ctx, os.Stdout, os.Args[0], os.Args[1:])
	cancel()
	os.Exit(rc)
}
