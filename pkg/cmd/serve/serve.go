// Package serve runs the tool server that exposes the host registry and
// remote execution to a calling agent.
package serve

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	cmdutil "github.com/hostwire/hostwire/pkg/cmd/util"
	"github.com/hostwire/hostwire/pkg/config"
	hwerrors "github.com/hostwire/hostwire/pkg/errors"
	"github.com/hostwire/hostwire/pkg/rpc"
	"github.com/hostwire/hostwire/pkg/runner"
	"github.com/hostwire/hostwire/pkg/tools"
)

func NewCmdServe() *cobra.Command {
	var httpAddr string

	cmd := &cobra.Command{
		Use:                   "serve",
		DisableFlagsInUseLine: true,
		Short:                 "Run the JSON-RPC tool server on stdio",
		Long:                  "Run the JSON-RPC tool server on stdio. The host registry is rebuilt from the ssh config tree at startup.",
		Example: `  hostwire serve
  hostwire serve --http 127.0.0.1:8337`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := RunServe(cmd.Context(), httpAddr)
			if err != nil {
				return hwerrors.WrapAndTrace(err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&httpAddr, "http", config.GlobalConfig.GetHTTPListenAddr(), "additionally serve the protocol over HTTP POST on this address")
	return cmd
}

func RunServe(ctx context.Context, httpAddr string) error {
	log, err := cmdutil.NewLogger()
	if err != nil {
		return hwerrors.WrapAndTrace(err)
	}
	defer log.Sync() //nolint:errcheck // stderr sync failure is unactionable

	reg, err := cmdutil.LoadRegistry(log)
	if err != nil {
		return hwerrors.WrapAndTrace(err)
	}
	log.Info("host registry loaded", zap.Int("hosts", reg.Len()))

	run := runner.NewDefaultRunner(log.Named("runner"))
	dispatcher := tools.NewDispatcher(reg, run, log.Named("tools"))
	server := rpc.NewServer(dispatcher, "hostwire", config.Version, log.Named("rpc"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ServeStdio(gctx, os.Stdin, os.Stdout)
	})
	if httpAddr != "" {
		g.Go(func() error {
			return server.ServeHTTP(gctx, httpAddr)
		})
	}

	if err := g.Wait(); err != nil && !hwerrors.Is(err, context.Canceled) {
		return hwerrors.WrapAndTrace(err)
	}
	return nil
}
