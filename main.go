package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hostwire/hostwire/pkg/cmd"
	"github.com/hostwire/hostwire/pkg/errors"
	"github.com/hostwire/hostwire/pkg/featureflag"
)

func main() {
	_ = featureflag.LoadFeatureFlags(".")

	reporter := errors.GetDefaultErrorReporter()
	cleanup := reporter.Setup()
	defer cleanup()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	command := cmd.NewDefaultHostwireCommand()
	if err := command.ExecuteContext(ctx); err != nil {
		reporter.ReportError(err)
		reporter.Flush()
		os.Exit(1)
	}
}
