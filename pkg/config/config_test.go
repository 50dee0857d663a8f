package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetSSHConfigPathDefaultsToUserConfig(t *testing.T) {
	t.Setenv("HOSTWIRE_SSH_CONFIG", "")

	path := GlobalConfig.GetSSHConfigPath()
	assert.Equal(t, filepath.Join(".ssh", "config"), filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path)))
}

func TestEnvOverridesTakePrecedence(t *testing.T) {
	t.Setenv("HOSTWIRE_SSH_CONFIG", "/etc/hostwire/ssh_config")
	t.Setenv("HOSTWIRE_SSH_PATH", "/opt/openssh/bin/ssh")
	t.Setenv("HOSTWIRE_SCP_PATH", "/opt/openssh/bin/scp")
	t.Setenv("HOSTWIRE_HTTP_ADDR", "127.0.0.1:8377")

	assert.Equal(t, "/etc/hostwire/ssh_config", GlobalConfig.GetSSHConfigPath())
	assert.Equal(t, "/opt/openssh/bin/ssh", GlobalConfig.GetSSHBinaryPath())
	assert.Equal(t, "/opt/openssh/bin/scp", GlobalConfig.GetSCPBinaryPath())
	assert.Equal(t, "127.0.0.1:8377", GlobalConfig.GetHTTPListenAddr())
}

func TestBinaryPathsDefaultToPathLookup(t *testing.T) {
	t.Setenv("HOSTWIRE_SSH_PATH", "")
	t.Setenv("HOSTWIRE_SCP_PATH", "")

	assert.Equal(t, "ssh", GlobalConfig.GetSSHBinaryPath())
	assert.Equal(t, "scp", GlobalConfig.GetSCPBinaryPath())
}

func TestGetDebugRPC(t *testing.T) {
	t.Setenv("HOSTWIRE_DEBUG_RPC", "")
	assert.False(t, GlobalConfig.GetDebugRPC())

	t.Setenv("HOSTWIRE_DEBUG_RPC", "1")
	assert.True(t, GlobalConfig.GetDebugRPC())
}
