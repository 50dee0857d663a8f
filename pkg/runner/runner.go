// Package runner launches the external ssh/scp processes that carry remote
// commands and file transfers. One child process per call, no intermediate
// local shell; stdout and stderr accumulate in buffers for the life of the
// process.
package runner

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/alessio/shellescape"
	"go.uber.org/zap"

	"github.com/hostwire/hostwire/pkg/config"
	hwerrors "github.com/hostwire/hostwire/pkg/errors"
)

const (
	EncodingPlain  = "plain"
	EncodingBase64 = "base64"
)

type TransferDirection string

const (
	DirectionUpload   TransferDirection = "upload"
	DirectionDownload TransferDirection = "download"
)

// CommandOptions shape one remote command invocation. Zero TimeoutSeconds
// falls back to the command default.
type CommandOptions struct {
	TimeoutSeconds int
	Encoded        bool
	Interpreter    string
}

// Result reports one finished command or script. A nonzero exit code is not
// an error; it is a settled call with Success=false.
type Result struct {
	ExitCode    int
	Stdout      string
	Stderr      string
	Success     bool
	Encoding    string
	Interpreter string
}

// TransferResult echoes the captured output of a completed scp invocation.
// Transfers that fail in any way surface as errors instead.
type TransferResult struct {
	Stdout string
	Stderr string
}

type Runner struct {
	sshPath string
	scpPath string
	log     *zap.Logger
}

func NewDefaultRunner(log *zap.Logger) Runner {
	return NewRunner(config.GlobalConfig.GetSSHBinaryPath(), config.GlobalConfig.GetSCPBinaryPath(), log)
}

func NewRunner(sshPath, scpPath string, log *zap.Logger) Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return Runner{
		sshPath: sshPath,
		scpPath: scpPath,
		log:     log,
	}
}

// RunCommand executes one remote command through the ssh client. The target
// alias must already have been validated against the registry; connection
// parameters are resolved by the ssh client itself from the same config the
// registry was built from.
func (r Runner) RunCommand(ctx context.Context, alias, command string, opts CommandOptions) (Result, error) {
	timeout := opts.TimeoutSeconds
	if timeout <= 0 {
		timeout = config.DefaultCommandTimeoutSeconds
	}
	interpreter := opts.Interpreter
	if interpreter == "" {
		interpreter = config.DefaultInterpreter
	}

	remote := command
	encoding := EncodingPlain
	if opts.Encoded {
		remote = EncodeCommand(command, interpreter)
		encoding = EncodingBase64
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	argv := BuildCommandArgv(r.sshPath, alias, remote)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.log.Debug("running remote command",
		zap.String("host", alias), zap.String("encoding", encoding), zap.Int("timeout", timeout))

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return Result{}, &hwerrors.TimeoutError{Seconds: timeout}
	}

	exitCode := 0
	if err != nil {
		exitErr := &exec.ExitError{}
		if !hwerrors.As(err, &exitErr) {
			return Result{}, &hwerrors.ExecutionFailedError{Message: "failed to execute ssh", Err: err}
		}
		exitCode = exitErr.ExitCode()
	}

	return Result{
		ExitCode:    exitCode,
		Stdout:      strings.TrimSpace(stdout.String()),
		Stderr:      strings.TrimSpace(stderr.String()),
		Success:     exitCode == 0,
		Encoding:    encoding,
		Interpreter: interpreter,
	}, nil
}

// RunScript executes a multi-line script body. Scripts always go through
// the encoded pipeline; multi-line content cannot safely cross the
// invocation boundary unescaped.
func (r Runner) RunScript(ctx context.Context, alias, script string, timeoutSeconds int, interpreter string) (Result, error) {
	if timeoutSeconds <= 0 {
		timeoutSeconds = config.DefaultScriptTimeoutSeconds
	}
	return r.RunCommand(ctx, alias, script, CommandOptions{
		TimeoutSeconds: timeoutSeconds,
		Encoded:        true,
		Interpreter:    interpreter,
	})
}

// Transfer copies a file to or from the remote host through scp. Unlike
// commands, transfers carry no timeout, and any nonzero exit or spawn
// failure is promoted to an execution error.
func (r Runner) Transfer(ctx context.Context, alias, localPath, remotePath string, direction TransferDirection) (TransferResult, error) {
	argv := BuildTransferArgv(r.scpPath, alias, localPath, remotePath, direction)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.log.Debug("running file transfer",
		zap.String("host", alias), zap.String("direction", string(direction)))

	if err := cmd.Run(); err != nil {
		msg := fmt.Sprintf("scp %s failed", direction)
		if s := strings.TrimSpace(stderr.String()); s != "" {
			msg = fmt.Sprintf("%s: %s", msg, s)
		}
		return TransferResult{}, &hwerrors.ExecutionFailedError{Message: msg, Err: err}
	}

	return TransferResult{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}, nil
}

// BuildCommandArgv shapes the ssh invocation: target alias first, final
// remote command text as the single trailing argument.
func BuildCommandArgv(sshPath, alias, remoteCommand string) []string {
	return []string{sshPath, alias, remoteCommand}
}

// BuildTransferArgv shapes the scp invocation with the remote side prefixed
// by the alias.
func BuildTransferArgv(scpPath, alias, localPath, remotePath string, direction TransferDirection) []string {
	remote := fmt.Sprintf("%s:%s", alias, remotePath)
	if direction == DirectionDownload {
		return []string{scpPath, remote, localPath}
	}
	return []string{scpPath, localPath, remote}
}

// EncodeCommand wraps the payload in a reversible ASCII-safe pipeline that
// decodes it and feeds it to the interpreter on the remote side. Lossless
// for arbitrary byte content.
func EncodeCommand(payload, interpreter string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(payload))
	return fmt.Sprintf("echo %s | base64 -d | %s", encoded, shellescape.Quote(interpreter))
}
