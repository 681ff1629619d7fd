package testlog

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/danmuck/bitpacket/internal/logging"
)

// Start configures test logging and returns a logger tagged with the test
// name.
func Start(t *testing.T) zerolog.Logger {
	t.Helper()
	logging.ConfigureTests()
	l := logging.Logger().With().Str("test", t.Name()).Logger()
	l.Info().Msg("test start")
	return l
}
