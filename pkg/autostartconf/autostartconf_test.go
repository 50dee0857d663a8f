package autostartconf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	files map[string]string
	user  string
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: map[string]string{}, user: "deploy"}
}

func (s *fakeStore) WriteString(path, data string) error {
	s.files[path] = data
	return nil
}

func (s *fakeStore) Remove(path string) error {
	delete(s.files, path)
	return nil
}

func (s *fakeStore) FileExists(path string) (bool, error) {
	_, ok := s.files[path]
	return ok, nil
}

func (s *fakeStore) GetOSUser() string { return s.user }

func recordCommands(got *[][]string) func([][]string) error {
	return func(commands [][]string) error {
		*got = append(*got, commands...)
		return nil
	}
}

func TestLinuxInstallWritesUnitAndEnables(t *testing.T) {
	store := newFakeStore()
	var commands [][]string
	lsc := LinuxSystemdConfigurer{
		Store:           store,
		ValueConfigFile: "[Service]\nExecStart=/usr/local/bin/hostwire serve\n",
		DestConfigFile:  "/etc/systemd/system/hostwired.service",
		ServiceName:     "hostwired.service",
		RunCommands:     recordCommands(&commands),
	}

	err := lsc.Install()
	require.NoError(t, err)
	require.Contains(t, store.files["/etc/systemd/system/hostwired.service"], "hostwire serve")
	require.Contains(t, commands, []string{"systemctl", "enable", "hostwired.service"})
	require.Contains(t, commands, []string{"systemctl", "start", "hostwired.service"})
}

func TestLinuxUnInstallIsNoopWithoutUnitFile(t *testing.T) {
	var commands [][]string
	lsc := LinuxSystemdConfigurer{
		Store:          newFakeStore(),
		DestConfigFile: "/etc/systemd/system/hostwired.service",
		ServiceName:    "hostwired.service",
		RunCommands:    recordCommands(&commands),
	}

	err := lsc.UnInstall()
	require.NoError(t, err)
	require.Empty(t, commands)
}

func TestLinuxUnInstallRemovesUnitFile(t *testing.T) {
	store := newFakeStore()
	store.files["/etc/systemd/system/hostwired.service"] = "unit"
	var commands [][]string
	lsc := LinuxSystemdConfigurer{
		Store:          store,
		DestConfigFile: "/etc/systemd/system/hostwired.service",
		ServiceName:    "hostwired.service",
		RunCommands:    recordCommands(&commands),
	}

	err := lsc.UnInstall()
	require.NoError(t, err)
	require.NotContains(t, store.files, "/etc/systemd/system/hostwired.service")
	require.Contains(t, commands, []string{"systemctl", "stop", "hostwired.service"})
}

func TestDarwinInstallWritesPlistAndLoads(t *testing.T) {
	store := newFakeStore()
	var commands [][]string
	dpc := DarwinPlistConfigurer{
		Store:           store,
		ValueConfigFile: "<plist><string>/usr/local/bin/hostwire</string><string>serve</string></plist>",
		DestPlistPath:   "/Library/LaunchDaemons/com.hostwire.hostwired.plist",
		Label:           "com.hostwire.hostwired",
		RunCommands:     recordCommands(&commands),
	}

	err := dpc.Install()
	require.NoError(t, err)
	require.Contains(t, store.files, "/Library/LaunchDaemons/com.hostwire.hostwired.plist")
	require.Contains(t, commands, []string{"launchctl", "load", "/Library/LaunchDaemons/com.hostwire.hostwired.plist"})
	require.Contains(t, commands, []string{"launchctl", "start", "com.hostwire.hostwired"})
}
