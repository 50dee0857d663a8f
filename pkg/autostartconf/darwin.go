package autostartconf

import (
	hwerrors "github.com/hostwire/hostwire/pkg/errors"
)

type DarwinPlistConfigurer struct {
	Store           DaemonStore
	ValueConfigFile string
	DestPlistPath   string
	Label           string
	RunCommands     func([][]string) error
}

func (dpc DarwinPlistConfigurer) Install() error {
	_ = dpc.UnInstall() // best effort
	err := dpc.Store.WriteString(dpc.DestPlistPath, dpc.ValueConfigFile)
	if err != nil {
		return hwerrors.WrapAndTrace(err)
	}
	err = dpc.RunCommands([][]string{
		{"launchctl", "load", dpc.DestPlistPath},
		{"launchctl", "start", dpc.Label},
	})
	if err != nil {
		return hwerrors.WrapAndTrace(err)
	}
	return nil
}

func (dpc DarwinPlistConfigurer) UnInstall() error {
	exists, err := dpc.Store.FileExists(dpc.DestPlistPath)
	if err != nil {
		return hwerrors.WrapAndTrace(err)
	}
	if !exists {
		return nil
	}
	_ = dpc.RunCommands([][]string{
		{"launchctl", "stop", dpc.Label},
		{"launchctl", "unload", dpc.DestPlistPath},
	})
	err = dpc.Store.Remove(dpc.DestPlistPath)
	if err != nil {
		return hwerrors.WrapAndTrace(err)
	}
	return nil
}
