package autostartconf

import (
	hwerrors "github.com/hostwire/hostwire/pkg/errors"
)

type LinuxSystemdConfigurer struct {
	Store           DaemonStore
	ValueConfigFile string
	DestConfigFile  string
	ServiceName     string
	RunCommands     func([][]string) error
}

func (lsc LinuxSystemdConfigurer) Install() error {
	_ = lsc.UnInstall() // best effort
	err := lsc.Store.WriteString(lsc.DestConfigFile, lsc.ValueConfigFile)
	if err != nil {
		return hwerrors.WrapAndTrace(err)
	}
	err = lsc.RunCommands([][]string{
		{"systemctl", "daemon-reload"},
		{"systemctl", "enable", lsc.ServiceName},
		{"systemctl", "start", lsc.ServiceName},
	})
	if err != nil {
		return hwerrors.WrapAndTrace(err)
	}
	return nil
}

func (lsc LinuxSystemdConfigurer) UnInstall() error {
	exists, err := lsc.Store.FileExists(lsc.DestConfigFile)
	if err != nil {
		return hwerrors.WrapAndTrace(err)
	}
	if !exists {
		return nil
	}
	// stop/disable may fail if the unit never started; the file removal is
	// what matters
	_ = lsc.RunCommands([][]string{
		{"systemctl", "stop", lsc.ServiceName},
		{"systemctl", "disable", lsc.ServiceName},
	})
	err = lsc.Store.Remove(lsc.DestConfigFile)
	if err != nil {
		return hwerrors.WrapAndTrace(err)
	}
	return nil
}
