package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// viper keys, bound by the root command
const (
	LevelKey   = "log.level"
	FormatKey  = "log.format"
	NoColorKey = "log.no_color"
)

// InitDefault sets up a console logger before flags and config are
// parsed, so early failures are still readable.
func InitDefault() {
	log.Logger = log.Output(consoleWriter(false))
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// Init configures the global logger from viper. An explicit writer
// overrides the configured format (used by tests).
func Init(w io.Writer) {
	level, err := zerolog.ParseLevel(strings.ToLower(viper.GetString(LevelKey)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if w == nil {
		switch viper.GetString(FormatKey) {
		case "json":
			w = os.Stderr
		default:
			w = consoleWriter(viper.GetBool(NoColorKey))
		}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

func consoleWriter(noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}
}
