// Package service installs or removes the serve daemon as an OS service.
package service

import (
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/hostwire/hostwire/pkg/autostartconf"
	hwerrors "github.com/hostwire/hostwire/pkg/errors"
	"github.com/hostwire/hostwire/pkg/terminal"
)

func NewCmdService(t *terminal.Terminal) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "service",
		DisableFlagsInUseLine: true,
		Short:                 "Manage the serve daemon as an OS service",
	}
	cmd.AddCommand(newCmdInstall(t))
	cmd.AddCommand(newCmdUninstall(t))
	return cmd
}

func newCmdInstall(t *terminal.Terminal) *cobra.Command {
	return &cobra.Command{
		Use:                   "install",
		DisableFlagsInUseLine: true,
		Short:                 "Register the serve daemon with systemd or launchd",
		Example:               "  sudo hostwire service install",
		Args:                  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			configurer, err := newConfigurer()
			if err != nil {
				return hwerrors.WrapAndTrace(err)
			}
			err = configurer.Install()
			if err != nil {
				return hwerrors.WrapAndTrace(err)
			}
			t.Vprint(t.Green("service installed"))
			return nil
		},
	}
}

func newCmdUninstall(t *terminal.Terminal) *cobra.Command {
	return &cobra.Command{
		Use:                   "uninstall",
		DisableFlagsInUseLine: true,
		Short:                 "Remove the serve daemon from systemd or launchd",
		Example:               "  sudo hostwire service uninstall",
		Args:                  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			configurer, err := newConfigurer()
			if err != nil {
				return hwerrors.WrapAndTrace(err)
			}
			err = configurer.UnInstall()
			if err != nil {
				return hwerrors.WrapAndTrace(err)
			}
			t.Vprint(t.Green("service removed"))
			return nil
		},
	}
}

func newConfigurer() (autostartconf.DaemonConfigurer, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, hwerrors.WrapAndTrace(err)
	}
	store := autostartconf.NewFileStore(afero.NewOsFs())
	configurer := autostartconf.NewServeDaemonConfigurer(store, execPath)
	if configurer == nil {
		return nil, hwerrors.New("no service manager available on this platform")
	}
	return configurer, nil
}
