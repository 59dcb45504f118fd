//go:build !logless

package logger

import (
	"os"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Log is the package-level diagnostic logger shared by the builders
// and simplifier. It never drives control flow: every
// call site that logs also returns a normal Go value or error.
var Log = zlog.With().Caller().Logger().Output(zerolog.ConsoleWriter{Out: os.Stderr})

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}
