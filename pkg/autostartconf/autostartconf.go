// Package autostartconf registers the serve daemon with the host init
// system so it survives reboots. Linux gets a systemd unit, darwin a
// launchd plist.
package autostartconf

import (
	"fmt"
	"os/exec"
	"os/user"
	"runtime"

	"github.com/spf13/afero"

	hwerrors "github.com/hostwire/hostwire/pkg/errors"
)

const (
	osLinux  = "linux"
	osDarwin = "darwin"
)

// DaemonStore is the filesystem surface the configurers write through.
type DaemonStore interface {
	WriteString(path, data string) error
	Remove(path string) error
	FileExists(path string) (bool, error)
	GetOSUser() string
}

type DaemonConfigurer interface {
	Install() error
	UnInstall() error
}

// FileStore is the afero-backed DaemonStore used outside of tests.
type FileStore struct {
	fs afero.Fs
}

func NewFileStore(fs afero.Fs) FileStore {
	return FileStore{fs: fs}
}

func (s FileStore) WriteString(path, data string) error {
	err := afero.WriteFile(s.fs, path, []byte(data), 0o644)
	if err != nil {
		return hwerrors.WrapAndTrace(err)
	}
	return nil
}

func (s FileStore) Remove(path string) error {
	err := s.fs.Remove(path)
	if err != nil {
		return hwerrors.WrapAndTrace(err)
	}
	return nil
}

func (s FileStore) FileExists(path string) (bool, error) {
	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return false, hwerrors.WrapAndTrace(err)
	}
	return exists, nil
}

func (s FileStore) GetOSUser() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}
	return u.Username
}

// NewServeDaemonConfigurer returns the configurer for the current OS. The
// daemon runs "<execPath> serve"; execPath must be an absolute path to the
// installed binary.
func NewServeDaemonConfigurer(store DaemonStore, execPath string) DaemonConfigurer {
	switch runtime.GOOS {
	case osLinux:
		return LinuxSystemdConfigurer{
			Store: store,
			ValueConfigFile: `
[Install]
WantedBy=multi-user.target

[Unit]
Description=hostwire tool server daemon
After=network.target

[Service]
Type=simple
ExecStart=` + execPath + ` serve
Restart=always
User=` + store.GetOSUser() + `
`,
			DestConfigFile: "/etc/systemd/system/hostwired.service",
			ServiceName:    "hostwired.service",
			RunCommands:    ExecCommands,
		}
	case osDarwin:
		return DarwinPlistConfigurer{
			Store: store,
			ValueConfigFile: `
<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>

  <key>Label</key>
  <string>com.hostwire.hostwired</string>

  <key>ProgramArguments</key>
  <array>
    <string>` + execPath + `</string>
    <string>serve</string>
  </array>

  <key>RunAtLoad</key>
  <true/>

  <key>StandardOutPath</key>
  <string>/var/log/hostwired.log</string>
  <key>StandardErrorPath</key>
  <string>/var/log/hostwired.log</string>

</dict>
</plist>
`,
			DestPlistPath: "/Library/LaunchDaemons/com.hostwire.hostwired.plist",
			Label:         "com.hostwire.hostwired",
			RunCommands:   ExecCommands,
		}
	}
	return nil
}

func ExecCommands(commands [][]string) error {
	for _, command := range commands {
		first, rest := firstAndRest(command)
		out, err := exec.Command(first, rest...).CombinedOutput() // #nosec G204
		if err != nil {
			return hwerrors.Errorf("error running %s %s: %v, %s", first, fmt.Sprint(command), err, out)
		}
	}
	return nil
}

func firstAndRest(commandstring []string) (string, []string) {
	first := commandstring[0]
	rest := commandstring[1:]
	return first, rest
}
