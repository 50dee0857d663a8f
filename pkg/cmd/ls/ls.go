// Package ls lists the hosts known to the registry.
package ls

import (
	"fmt"

	"github.com/spf13/cobra"

	cmdutil "github.com/hostwire/hostwire/pkg/cmd/util"
	hwerrors "github.com/hostwire/hostwire/pkg/errors"
	"github.com/hostwire/hostwire/pkg/terminal"
)

func NewCmdLs(t *terminal.Terminal) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "ls",
		DisableFlagsInUseLine: true,
		Short:                 "List hosts from the ssh config",
		Long:                  "List every host alias in the ssh config tree with its effective connection parameters.",
		Example:               "  hostwire ls",
		Args:                  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := RunLs(t)
			if err != nil {
				return hwerrors.WrapAndTrace(err)
			}
			return nil
		},
	}
	return cmd
}

func RunLs(t *terminal.Terminal) error {
	log, err := cmdutil.NewLogger()
	if err != nil {
		return hwerrors.WrapAndTrace(err)
	}
	reg, err := cmdutil.LoadRegistry(log)
	if err != nil {
		return hwerrors.WrapAndTrace(err)
	}

	summaries := reg.List()
	if len(summaries) == 0 {
		t.Vprint(t.Yellow("no hosts found in ssh config"))
		return nil
	}

	t.Vprintf("%-24s %-32s %-16s %s\n", "ALIAS", "HOSTNAME", "USER", "PORT")
	for _, h := range summaries {
		t.Vprintf("%-24s %-32s %-16s %d\n", t.Green("%s", h.Alias), h.Hostname, h.User, h.Port)
	}
	t.Vprint(fmt.Sprintf("\n%d host(s)", len(summaries)))
	return nil
}
