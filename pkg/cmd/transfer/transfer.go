// Package transfer copies files to and from remote hosts through scp.
package transfer

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	cmdutil "github.com/hostwire/hostwire/pkg/cmd/util"
	hwerrors "github.com/hostwire/hostwire/pkg/errors"
	"github.com/hostwire/hostwire/pkg/runner"
	"github.com/hostwire/hostwire/pkg/terminal"
)

func NewCmdUpload(t *terminal.Terminal) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "upload <host> <local-path> <remote-path>",
		DisableFlagsInUseLine: true,
		Short:                 "Upload a local file to a remote host",
		Example:               "  hostwire upload web-1 ./app.tar.gz /tmp/app.tar.gz",
		Args:                  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runTransfer(cmd.Context(), t, args[0], args[1], args[2], runner.DirectionUpload)
			if err != nil {
				return hwerrors.WrapAndTrace(err)
			}
			return nil
		},
	}
	return cmd
}

func NewCmdDownload(t *terminal.Terminal) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "download <host> <remote-path> <local-path>",
		DisableFlagsInUseLine: true,
		Short:                 "Download a file from a remote host",
		Example:               "  hostwire download web-1 /var/log/syslog ./syslog",
		Args:                  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runTransfer(cmd.Context(), t, args[0], args[2], args[1], runner.DirectionDownload)
			if err != nil {
				return hwerrors.WrapAndTrace(err)
			}
			return nil
		},
	}
	return cmd
}

func runTransfer(ctx context.Context, t *terminal.Terminal, alias, localPath, remotePath string, direction runner.TransferDirection) error {
	log, err := cmdutil.NewLogger()
	if err != nil {
		return hwerrors.WrapAndTrace(err)
	}
	reg, err := cmdutil.LoadRegistry(log)
	if err != nil {
		return hwerrors.WrapAndTrace(err)
	}
	if _, ok := reg.Lookup(alias); !ok {
		return hwerrors.Errorf("host not found in ssh config: %s", alias)
	}

	run := runner.NewDefaultRunner(log.Named("runner"))

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = fmt.Sprintf(" uploading to %s", alias)
	if direction == runner.DirectionDownload {
		s.Suffix = fmt.Sprintf(" downloading from %s", alias)
	}
	s.Start()
	result, err := run.Transfer(ctx, alias, localPath, remotePath, direction)
	s.Stop()
	if err != nil {
		return hwerrors.WrapAndTrace(err)
	}

	if direction == runner.DirectionUpload {
		t.Vprint(t.Green("uploaded %s to %s:%s", localPath, alias, remotePath))
	} else {
		t.Vprint(t.Green("downloaded %s:%s to %s", alias, remotePath, localPath))
	}
	if result.Stdout != "" {
		t.Vprint(result.Stdout)
	}
	return nil
}
