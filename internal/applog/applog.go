// Package applog is the terse logrus wrapper dexprctl uses for diagnostics.
// It carries no state beyond the package-level logger: callers that want
// structured fields use logrus.Entry directly via Log().
package applog

import (
	"os"

	"github.com/sirupsen/logrus"
)

var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = os.Stderr
	l.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetVerbose switches the logger to debug level, wired to dexprctl's -v flag.
func SetVerbose(v bool) {
	if v {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
}

// Log returns the package logger for structured field chaining.
func Log() *logrus.Logger { return log }
