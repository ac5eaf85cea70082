package testlog

import (
	"testing"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/bitsctl/internal/logging"
)

// Start configures test logging once and marks the beginning of t.
func Start(t *testing.T) {
	t.Helper()
	logging.ConfigureTests()
	log.Debug().Str("test", t.Name()).Msg("start")
}
