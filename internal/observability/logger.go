package observability

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/bitsctl/internal/logging"
)

// InitLogger installs a console logger tagged with app as the global logger.
// level overrides the profile default when it names a known level.
func InitLogger(app, level string) zerolog.Logger {
	cfg := logging.DefaultConfig(logging.ProfileRuntime)
	if lvl, ok := logging.ParseLevel(level); ok {
		cfg.Level = lvl
	}
	logging.ApplyEnvOverrides(&cfg)
	logger := logging.New(os.Stderr, cfg).With().Str("app", app).Logger()
	log.Logger = logger
	return logger
}
