package calculation

import "github.com/sirupsen/logrus"

// Logger is the minimal logging surface the engine needs. The default is a
// logrus logger; embedders that want silence use NopLogger.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NewLogrusLogger adapts a logrus logger to the engine's Logger interface.
func NewLogrusLogger(l *logrus.Logger) Logger {
	return logrusLogger{l: l}
}

type logrusLogger struct {
	l *logrus.Logger
}

func (ll logrusLogger) Debugf(format string, args ...any) { ll.l.Debugf(format, args...) }
func (ll logrusLogger) Infof(format string, args ...any)  { ll.l.Infof(format, args...) }
func (ll logrusLogger) Warnf(format string, args ...any)  { ll.l.Warnf(format, args...) }
func (ll logrusLogger) Errorf(format string, args ...any) { ll.l.Errorf(format, args...) }

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debugf(format string, args ...any) {}
func (NopLogger) Infof(format string, args ...any)  {}
func (NopLogger) Warnf(format string, args ...any)  {}
func (NopLogger) Errorf(format string, args ...any) {}

func defaultLogger() Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return logrusLogger{l: l}
}
