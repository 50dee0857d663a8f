// Package version prints the build version.
package version

import (
	"github.com/spf13/cobra"

	"github.com/hostwire/hostwire/pkg/config"
	"github.com/hostwire/hostwire/pkg/terminal"
)

func NewCmdVersion(t *terminal.Terminal) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "version",
		DisableFlagsInUseLine: true,
		Short:                 "Print the hostwire version",
		Args:                  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			v := config.Version
			if v == "" {
				v = "dev"
			}
			t.Vprint(v)
		},
	}
	return cmd
}
