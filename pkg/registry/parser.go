package registry

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/hostwire/hostwire/pkg/config"
	hwerrors "github.com/hostwire/hostwire/pkg/errors"
)

// Loader builds a Registry from the on-disk ssh client configuration tree.
// Filesystem access goes through afero and the home directory is injected
// so the whole parse tree runs against an in-memory fs in tests.
type Loader struct {
	fs      afero.Fs
	locator ConfigLocator
	homeDir func() (string, error)
	log     *zap.Logger
}

func NewDefaultLoader(fs afero.Fs, log *zap.Logger) Loader {
	return NewLoader(fs, DefaultConfigLocator{}, os.UserHomeDir, log)
}

func NewLoader(fs afero.Fs, locator ConfigLocator, home func() (string, error), log *zap.Logger) Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return Loader{
		fs:      fs,
		locator: locator,
		homeDir: home,
		log:     log,
	}
}

// DefaultConfigLocator points at the per-user ssh config.
type DefaultConfigLocator struct{}

func (DefaultConfigLocator) ConfigPath() (string, error) {
	return config.GlobalConfig.GetSSHConfigPath(), nil
}

// parseContext is threaded through one Load call tree. visited guards
// against include cycles; warnings accumulate everything that was skipped.
type parseContext struct {
	registry *Registry
	visited  map[string]bool
	warnings *multierror.Error
}

// Load parses the primary config file and every reachable include into a
// fresh Registry. A missing primary file is a silent no-op yielding an
// empty registry. The returned error aggregates per-file warnings and is
// never fatal; the registry is valid either way.
func (l Loader) Load() (*Registry, error) {
	reg := newRegistry()
	ctx := &parseContext{
		registry: reg,
		visited:  map[string]bool{},
	}

	configPath, err := l.locator.ConfigPath()
	if err != nil {
		return nil, hwerrors.WrapAndTrace(err)
	}

	exists, err := afero.Exists(l.fs, configPath)
	if err != nil {
		return nil, hwerrors.WrapAndTrace(err)
	}
	if !exists {
		l.log.Info("ssh config not found, starting with empty registry", zap.String("path", configPath))
		return reg, nil
	}

	l.parseFile(configPath, ctx)
	return reg, ctx.warnings.ErrorOrNil()
}

func (l Loader) parseFile(path string, ctx *parseContext) {
	abs, err := filepath.Abs(path)
	if err != nil {
		l.warn(ctx, "could not resolve config path", path, err)
		return
	}
	if ctx.visited[abs] {
		l.log.Warn("skipping already-included config file", zap.String("path", abs))
		return
	}
	ctx.visited[abs] = true

	data, err := afero.ReadFile(l.fs, abs)
	if err != nil {
		l.warn(ctx, "could not read config file", abs, err)
		return
	}

	l.parse(string(data), filepath.Dir(abs), ctx)
}

// parse processes one configuration document. The in-progress record is
// local to the document: an Include boundary commits nothing by itself, and
// the final record commits at end of input.
func (l Loader) parse(text, baseDir string, ctx *parseContext) {
	var current *HostRecord

	commit := func() {
		if current != nil && current.Alias != "" {
			ctx.registry.add(*current)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		fields := strings.Fields(trimmed)
		key := fields[0]
		value := strings.TrimSpace(trimmed[len(key):])

		switch strings.ToLower(key) {
		case "include":
			if value != "" {
				l.include(value, baseDir, ctx)
			}
		case "host":
			commit()
			if value == "" {
				continue
			}
			// Only the first pattern token registers an alias; the rest
			// are inert for lookups. Known simplification.
			current = &HostRecord{
				Alias: strings.Fields(value)[0],
				Extra: map[string]string{},
			}
		case "hostname":
			if current != nil {
				current.Hostname = value
			}
		case "user":
			if current != nil {
				current.User = value
			}
		case "port":
			if current == nil {
				continue
			}
			port, err := strconv.Atoi(value)
			if err != nil {
				l.log.Warn("ignoring non-numeric Port",
					zap.String("host", current.Alias), zap.String("value", value))
				continue
			}
			current.Port = port
		case "identityfile":
			if current != nil {
				current.IdentityFile = l.expandHome(value)
			}
		case "proxyjump":
			if current != nil {
				current.ProxyJump = value
			}
		default:
			// Any other key while a record is in progress lands in the
			// property bag; outside a Host block the line is skipped.
			if current != nil && value != "" {
				current.Extra[strings.ToLower(key)] = value
			}
		}
	}

	commit()
}

func (l Loader) include(pattern, baseDir string, ctx *parseContext) {
	// Expand ~ before looking for wildcards so a ~/.ssh/conf.d/* pattern
	// globs under the real home directory.
	path := l.expandHome(pattern)
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	if !strings.ContainsAny(path, "*?[") {
		l.parseFile(path, ctx)
		return
	}

	matches, err := afero.Glob(l.fs, path)
	if err != nil {
		l.warn(ctx, "could not expand include pattern", path, err)
		return
	}
	for _, match := range matches {
		l.parseFile(match, ctx)
	}
}

func (l Loader) expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := l.homeDir()
	if err != nil {
		return path
	}
	trimmed := strings.TrimPrefix(path, "~")
	return filepath.Join(home, strings.TrimPrefix(trimmed, string(filepath.Separator)))
}

func (l Loader) warn(ctx *parseContext, msg, path string, err error) {
	l.log.Warn(msg, zap.String("path", path), zap.Error(err))
	ctx.warnings = multierror.Append(ctx.warnings, hwerrors.Wrap(err, msg+" "+path))
}
