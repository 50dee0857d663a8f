package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/hostwire/hostwire/pkg/config"
	hwerrors "github.com/hostwire/hostwire/pkg/errors"
	"github.com/hostwire/hostwire/pkg/registry"
	"github.com/hostwire/hostwire/pkg/runner"
)

const scriptPreviewLines = 3

// CommandRunner is the slice of the process runner the dispatcher needs.
type CommandRunner interface {
	RunCommand(ctx context.Context, alias, command string, opts runner.CommandOptions) (runner.Result, error)
	RunScript(ctx context.Context, alias, script string, timeoutSeconds int, interpreter string) (runner.Result, error)
	Transfer(ctx context.Context, alias, localPath, remotePath string, direction runner.TransferDirection) (runner.TransferResult, error)
}

// Dispatcher validates incoming tool calls against the host registry and
// routes them to the runner. Every operation is attempted exactly once.
type Dispatcher struct {
	registry *registry.Registry
	runner   CommandRunner
	log      *zap.Logger
}

func NewDispatcher(reg *registry.Registry, run CommandRunner, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		registry: reg,
		runner:   run,
		log:      log,
	}
}

// Dispatch executes one named tool with raw JSON arguments and returns the
// response payload. Errors are always one of the taxonomy types from the
// errors package.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args json.RawMessage) (map[string]any, error) {
	execID := uuid.NewString()
	log := d.log.With(zap.String("tool", name), zap.String("execution_id", execID))
	log.Debug("dispatching tool call")

	switch name {
	case ToolExecuteCommand:
		return d.executeCommand(ctx, log, args)
	case ToolExecuteScript:
		return d.executeScript(ctx, log, args)
	case ToolListHosts:
		return d.listHosts(), nil
	case ToolGetHostInfo:
		return d.getHostInfo(args)
	case ToolUploadFile:
		return d.transferFile(ctx, log, args, runner.DirectionUpload)
	case ToolDownloadFile:
		return d.transferFile(ctx, log, args, runner.DirectionDownload)
	default:
		log.Warn("unknown tool", zap.Strings("known", lo.Map(Definitions(), func(t Tool, _ int) string { return t.Name })))
		return nil, &hwerrors.MethodNotFoundError{Method: name}
	}
}

func (d *Dispatcher) executeCommand(ctx context.Context, log *zap.Logger, args json.RawMessage) (map[string]any, error) {
	host, err := d.requiredHost(args)
	if err != nil {
		return nil, err
	}
	command, err := requiredString(args, "command")
	if err != nil {
		return nil, err
	}

	timeout := optionalInt(args, "timeout", config.DefaultCommandTimeoutSeconds)
	encoded := gjson.GetBytes(args, "encoded").Bool()

	result, err := d.runner.RunCommand(ctx, host, command, runner.CommandOptions{
		TimeoutSeconds: timeout,
		Encoded:        encoded,
	})
	if err != nil {
		return nil, err
	}

	echoed := command
	if encoded {
		echoed = command + " (encoded)"
	}
	log.Debug("command settled", zap.Int("exit_code", result.ExitCode))

	return map[string]any{
		"host":     host,
		"command":  echoed,
		"exitCode": result.ExitCode,
		"stdout":   result.Stdout,
		"stderr":   result.Stderr,
		"success":  result.Success,
		"encoding": result.Encoding,
	}, nil
}

func (d *Dispatcher) executeScript(ctx context.Context, log *zap.Logger, args json.RawMessage) (map[string]any, error) {
	host, err := d.requiredHost(args)
	if err != nil {
		return nil, err
	}
	script, err := requiredString(args, "script")
	if err != nil {
		return nil, err
	}

	timeout := optionalInt(args, "timeout", config.DefaultScriptTimeoutSeconds)
	interpreter := optionalString(args, "interpreter", config.DefaultInterpreter)

	result, err := d.runner.RunScript(ctx, host, script, timeout, interpreter)
	if err != nil {
		return nil, err
	}

	preview, lineCount := scriptPreview(script)
	log.Debug("script settled", zap.Int("exit_code", result.ExitCode), zap.Int("lines", lineCount))

	return map[string]any{
		"host":        host,
		"script":      preview,
		"interpreter": result.Interpreter,
		"exitCode":    result.ExitCode,
		"stdout":      result.Stdout,
		"stderr":      result.Stderr,
		"success":     result.Success,
		"encoding":    result.Encoding,
		"lineCount":   lineCount,
	}, nil
}

func (d *Dispatcher) listHosts() map[string]any {
	summaries := d.registry.List()
	return map[string]any{
		"hosts": summaries,
		"total": len(summaries),
	}
}

func (d *Dispatcher) getHostInfo(args json.RawMessage) (map[string]any, error) {
	alias, err := requiredString(args, "host")
	if err != nil {
		return nil, err
	}
	record, ok := d.registry.Describe(alias)
	if !ok {
		return nil, hostNotFound(alias)
	}

	info := map[string]any{"host": record.Alias}
	if record.Hostname != "" {
		info["hostname"] = record.Hostname
	}
	if record.User != "" {
		info["user"] = record.User
	}
	if record.Port != 0 {
		info["port"] = record.Port
	}
	if record.IdentityFile != "" {
		info["identityFile"] = record.IdentityFile
	}
	if record.ProxyJump != "" {
		info["proxyJump"] = record.ProxyJump
	}
	if len(record.Extra) > 0 {
		info["extra"] = record.Extra
	}
	return info, nil
}

func (d *Dispatcher) transferFile(ctx context.Context, log *zap.Logger, args json.RawMessage, direction runner.TransferDirection) (map[string]any, error) {
	host, err := d.requiredHost(args)
	if err != nil {
		return nil, err
	}
	localPath, err := requiredString(args, "localPath")
	if err != nil {
		return nil, err
	}
	remotePath, err := requiredString(args, "remotePath")
	if err != nil {
		return nil, err
	}

	result, err := d.runner.Transfer(ctx, host, localPath, remotePath, direction)
	if err != nil {
		return nil, err
	}
	log.Debug("transfer settled", zap.String("direction", string(direction)))

	message := fmt.Sprintf("uploaded %s to %s:%s", localPath, host, remotePath)
	if direction == runner.DirectionDownload {
		message = fmt.Sprintf("downloaded %s:%s to %s", host, remotePath, localPath)
	}

	return map[string]any{
		"host":       host,
		"localPath":  localPath,
		"remotePath": remotePath,
		"success":    true,
		"message":    message,
		"stdout":     result.Stdout,
		"stderr":     result.Stderr,
	}, nil
}

// requiredHost reads the host argument and resolves it against the
// registry; an unknown alias fails before any process is spawned.
func (d *Dispatcher) requiredHost(args json.RawMessage) (string, error) {
	alias, err := requiredString(args, "host")
	if err != nil {
		return "", err
	}
	if _, ok := d.registry.Lookup(alias); !ok {
		return "", hostNotFound(alias)
	}
	return alias, nil
}

func hostNotFound(alias string) error {
	return hwerrors.NewInvalidRequestError(fmt.Sprintf("host not found in ssh config: %s", alias))
}

func requiredString(args json.RawMessage, field string) (string, error) {
	value := gjson.GetBytes(args, field)
	if !value.Exists() || strings.TrimSpace(value.String()) == "" {
		return "", hwerrors.NewInvalidRequestError(fmt.Sprintf("missing required field: %s", field))
	}
	return value.String(), nil
}

func optionalString(args json.RawMessage, field, fallback string) string {
	if value := gjson.GetBytes(args, field); value.Exists() && value.String() != "" {
		return value.String()
	}
	return fallback
}

func optionalInt(args json.RawMessage, field string, fallback int) int {
	if value := gjson.GetBytes(args, field); value.Exists() && value.Int() > 0 {
		return int(value.Int())
	}
	return fallback
}

// scriptPreview truncates the reported script to its first lines. Purely
// cosmetic for the response payload; execution always sees the full body.
func scriptPreview(script string) (string, int) {
	lines := strings.Split(script, "\n")
	if len(lines) <= scriptPreviewLines {
		return script, len(lines)
	}
	return strings.Join(lines[:scriptPreviewLines], "\n") + "\n...", len(lines)
}
