package logger

// #region imports
import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// #endregion

// #region constructor

// New builds the process logger. Development gets a human console writer at
// debug level; everything else logs JSON at info.
func New(environment string) zerolog.Logger {
	if environment == "development" {
		out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		return zerolog.New(out).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().Timestamp().Logger()
}

// #endregion
