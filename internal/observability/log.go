// Package observability wires structured logging and metrics around the
// decoder without the decoder itself depending on either.
package observability

import "github.com/sirupsen/logrus"

// NewLogger builds the CLI's logger. verbosity 0 is warn-and-above, 1 is
// info, 2+ is debug.
func NewLogger(verbosity int) *logrus.Logger {
	l := logrus.New()
	switch {
	case verbosity >= 2:
		l.SetLevel(logrus.DebugLevel)
	case verbosity == 1:
		l.SetLevel(logrus.InfoLevel)
	default:
		l.SetLevel(logrus.WarnLevel)
	}
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}
