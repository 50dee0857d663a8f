// Package cmd is the entrypoint to the cli
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hostwire/hostwire/pkg/cmd/exec"
	"github.com/hostwire/hostwire/pkg/cmd/ls"
	"github.com/hostwire/hostwire/pkg/cmd/serve"
	"github.com/hostwire/hostwire/pkg/cmd/service"
	"github.com/hostwire/hostwire/pkg/cmd/transfer"
	"github.com/hostwire/hostwire/pkg/cmd/version"
	"github.com/hostwire/hostwire/pkg/terminal"
)

func NewDefaultHostwireCommand() *cobra.Command {
	return NewHostwireCommand(terminal.New())
}

func NewHostwireCommand(t *terminal.Terminal) *cobra.Command {
	cmds := &cobra.Command{
		Use:   "hostwire",
		Short: "expose ssh config hosts to a calling agent",
		Long: `
      hostwire serves remote execution and file transfer tools over a
      structured request/response protocol, backed by your ssh config.`,
		Run: runHelp,
	}

	cmds.AddCommand(serve.NewCmdServe())
	cmds.AddCommand(service.NewCmdService(t))
	cmds.AddCommand(ls.NewCmdLs(t))
	cmds.AddCommand(exec.NewCmdExec(t))
	cmds.AddCommand(transfer.NewCmdUpload(t))
	cmds.AddCommand(transfer.NewCmdDownload(t))
	cmds.AddCommand(version.NewCmdVersion(t))

	return cmds
}

func runHelp(cmd *cobra.Command, _ []string) {
	cmd.Help() //nolint:errcheck // help failure writes nothing actionable
}
