// Package util holds the wiring shared by the hostwire subcommands.
package util

import (
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/hostwire/hostwire/pkg/config"
	hwerrors "github.com/hostwire/hostwire/pkg/errors"
	"github.com/hostwire/hostwire/pkg/registry"
)

// NewLogger builds the process logger. Everything goes to stderr so stdout
// stays usable as a protocol or pipeline channel.
func NewLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if config.GlobalConfig.GetDebugRPC() {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return nil, hwerrors.WrapAndTrace(err)
	}
	return log, nil
}

// LoadRegistry parses the user's ssh config tree. Load warnings are logged
// and swallowed; the registry is simply smaller than intended.
func LoadRegistry(log *zap.Logger) (*registry.Registry, error) {
	loader := registry.NewDefaultLoader(afero.NewOsFs(), log.Named("registry"))
	reg, warnings := loader.Load()
	if reg == nil {
		return nil, hwerrors.WrapAndTrace(warnings)
	}
	if warnings != nil {
		log.Warn("some ssh config files were skipped", zap.Error(warnings))
	}
	return reg, nil
}
