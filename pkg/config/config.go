package config

import (
	"os"
	"path/filepath"
)

// Version is stamped at build time via -ldflags.
var Version = ""

type EnvVarName string // should be caps with underscore

const (
	sshConfigPath  EnvVarName = "HOSTWIRE_SSH_CONFIG"
	sshBinaryPath  EnvVarName = "HOSTWIRE_SSH_PATH"
	scpBinaryPath  EnvVarName = "HOSTWIRE_SCP_PATH"
	httpListenAddr EnvVarName = "HOSTWIRE_HTTP_ADDR"
	sentryURL      EnvVarName = "HOSTWIRE_SENTRY_URL"
	debugRPC       EnvVarName = "HOSTWIRE_DEBUG_RPC"
)

const (
	// DefaultCommandTimeoutSeconds applies to single remote commands.
	DefaultCommandTimeoutSeconds = 30
	// DefaultScriptTimeoutSeconds applies to multi-line script bodies.
	DefaultScriptTimeoutSeconds = 60
	// DefaultInterpreter feeds decoded script bodies on the remote side.
	DefaultInterpreter = "bash"
)

type ConstantsConfig struct{}

func NewConstants() *ConstantsConfig {
	return &ConstantsConfig{}
}

// GetSSHConfigPath returns the primary host registry file. Absence of the
// file is not an error; the registry just loads empty.
func (c ConstantsConfig) GetSSHConfigPath() string {
	home, _ := os.UserHomeDir()
	return getEnvOrDefault(sshConfigPath, filepath.Join(home, ".ssh", "config"))
}

func (c ConstantsConfig) GetSSHBinaryPath() string {
	return getEnvOrDefault(sshBinaryPath, "ssh")
}

func (c ConstantsConfig) GetSCPBinaryPath() string {
	return getEnvOrDefault(scpBinaryPath, "scp")
}

func (c ConstantsConfig) GetHTTPListenAddr() string {
	return getEnvOrDefault(httpListenAddr, "")
}

func (c ConstantsConfig) GetSentryURL() string {
	return getEnvOrDefault(sentryURL, "")
}

func (c ConstantsConfig) GetDebugRPC() bool {
	return getEnvOrDefault(debugRPC, "") != ""
}

func getEnvOrDefault(envVarName EnvVarName, defaultVal string) string {
	val := os.Getenv(string(envVarName))
	if val == "" {
		return defaultVal
	}
	return val
}

var GlobalConfig = NewConstants()
