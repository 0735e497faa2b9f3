package cli

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// newLogger returns the logger for diagnostics and debug output.
// LOG_LEVEL overrides the level picked from debug.
func newLogger(debug bool, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	color := isTerminal(out)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		ForceColors:      color,
		DisableColors:    !color,
	})

	log.SetLevel(getLogLevel(debug))

	return log
}

func getLogLevel(debug bool) logrus.Level {
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		return level
	}

	if debug {
		return logrus.DebugLevel
	}

	return logrus.WarnLevel
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
