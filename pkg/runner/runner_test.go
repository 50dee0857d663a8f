package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	hwerrors "github.com/hostwire/hostwire/pkg/errors"
)

// writeStub drops an executable that discards the alias argument and runs
// the remote command text locally, standing in for the real ssh client.
func writeStub(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte(body), 0o755) //nolint:gosec // test stub must be executable
	require.NoError(t, err)
	return path
}

func sshStub(t *testing.T) string {
	t.Helper()
	return writeStub(t, "ssh", "#!/bin/sh\nshift\nexec /bin/sh -c \"$1\"\n")
}

func TestBuildCommandArgv(t *testing.T) {
	argv := BuildCommandArgv("ssh", "web-1", "uptime")
	require.Equal(t, []string{"ssh", "web-1", "uptime"}, argv)
}

func TestBuildTransferArgv(t *testing.T) {
	up := BuildTransferArgv("scp", "web-1", "/tmp/local", "/tmp/remote", DirectionUpload)
	require.Equal(t, []string{"scp", "/tmp/local", "web-1:/tmp/remote"}, up)

	down := BuildTransferArgv("scp", "web-1", "/tmp/local", "/tmp/remote", DirectionDownload)
	require.Equal(t, []string{"scp", "web-1:/tmp/remote", "/tmp/local"}, down)
}

func TestRunCommandCapturesOutput(t *testing.T) {
	r := NewRunner(sshStub(t), "scp", nil)

	result, err := r.RunCommand(context.Background(), "web-1", "echo hello; echo oops >&2", CommandOptions{})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, 0, result.ExitCode)
	require.Equal(t, "hello", result.Stdout)
	require.Equal(t, "oops", result.Stderr)
	require.Equal(t, EncodingPlain, result.Encoding)
}

func TestRunCommandNonzeroExitIsNotAnError(t *testing.T) {
	r := NewRunner(sshStub(t), "scp", nil)

	result, err := r.RunCommand(context.Background(), "web-1", "exit 3", CommandOptions{})
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, 3, result.ExitCode)
}

func TestRunCommandTimeout(t *testing.T) {
	r := NewRunner(sshStub(t), "scp", nil)

	start := time.Now()
	_, err := r.RunCommand(context.Background(), "web-1", "sleep 5", CommandOptions{TimeoutSeconds: 1})
	require.Error(t, err)

	timeoutErr := &hwerrors.TimeoutError{}
	require.True(t, hwerrors.As(err, &timeoutErr))
	require.Equal(t, 1, timeoutErr.Seconds)
	require.Less(t, time.Since(start), 3*time.Second)
}

func TestRunCommandFinishesBeforeTimeout(t *testing.T) {
	r := NewRunner(sshStub(t), "scp", nil)

	result, err := r.RunCommand(context.Background(), "web-1", "echo fast", CommandOptions{TimeoutSeconds: 10})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "fast", result.Stdout)
}

func TestRunCommandSpawnFailure(t *testing.T) {
	r := NewRunner("/nonexistent/ssh-binary", "scp", nil)

	_, err := r.RunCommand(context.Background(), "web-1", "uptime", CommandOptions{})
	require.Error(t, err)

	execErr := &hwerrors.ExecutionFailedError{}
	require.True(t, hwerrors.As(err, &execErr))
}

func TestEncodedCommandRoundTrip(t *testing.T) {
	r := NewRunner(sshStub(t), "scp", nil)

	payload := "printf '%s' \"quote'tick\\`dollar\\$end\""
	encoded, err := r.RunCommand(context.Background(), "web-1", payload, CommandOptions{Encoded: true, Interpreter: "sh"})
	require.NoError(t, err)
	require.Equal(t, EncodingBase64, encoded.Encoding)

	plain, err := r.RunCommand(context.Background(), "web-1", payload, CommandOptions{})
	require.NoError(t, err)
	require.Equal(t, plain.Stdout, encoded.Stdout)
}

func TestRunScriptAlwaysEncodes(t *testing.T) {
	r := NewRunner(sshStub(t), "scp", nil)

	script := "VAR='given$value'\nprintf '%s\\n' \"$VAR\"\nprintf '%s\\n' 'quote\"end'"
	result, err := r.RunScript(context.Background(), "web-1", script, 10, "sh")
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, EncodingBase64, result.Encoding)
	require.Equal(t, "sh", result.Interpreter)
	require.Equal(t, "given$value\nquote\"end", result.Stdout)
}

func TestTransferSuccess(t *testing.T) {
	scp := writeStub(t, "scp", "#!/bin/sh\necho copied\nexit 0\n")
	r := NewRunner("ssh", scp, nil)

	result, err := r.Transfer(context.Background(), "web-1", "/tmp/local", "/tmp/remote", DirectionUpload)
	require.NoError(t, err)
	require.Equal(t, "copied", result.Stdout)
}

func TestTransferNonzeroExitIsPromotedToError(t *testing.T) {
	scp := writeStub(t, "scp", "#!/bin/sh\necho 'permission denied' >&2\nexit 1\n")
	r := NewRunner("ssh", scp, nil)

	_, err := r.Transfer(context.Background(), "web-1", "/tmp/local", "/tmp/remote", DirectionUpload)
	require.Error(t, err)

	execErr := &hwerrors.ExecutionFailedError{}
	require.True(t, hwerrors.As(err, &execErr))
	require.Contains(t, execErr.Error(), "permission denied")
}
