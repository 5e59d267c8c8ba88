package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/tokencount"
)

var _ tokencount.Logger = LogrusLogger{}

type LogrusLogger struct{ E *logrus.Entry }

// New wraps a logrus.Logger.
func New(l *logrus.Logger) LogrusLogger { return LogrusLogger{E: logrus.NewEntry(l)} }

func (l LogrusLogger) Debug(msg string, f tokencount.Fields) { l.with(f).Debug(msg) }
func (l LogrusLogger) Info(msg string, f tokencount.Fields)  { l.with(f).Info(msg) }
func (l LogrusLogger) Warn(msg string, f tokencount.Fields)  { l.with(f).Warn(msg) }
func (l LogrusLogger) Error(msg string, f tokencount.Fields) { l.with(f).Error(msg) }

// with moves an "err" field onto logrus' own error key so formatters render it.
func (l LogrusLogger) with(f tokencount.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	lf := make(logrus.Fields, len(f))
	for k, v := range f {
		if err, ok := v.(error); ok && k == "err" {
			lf[logrus.ErrorKey] = err
			continue
		}
		lf[k] = v
	}
	return l.E.WithFields(lf)
}
