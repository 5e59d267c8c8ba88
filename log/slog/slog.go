package slog

import (
	"context"
	stdslog "log/slog"

	"github.com/unkn0wn-root/tokencount"
)

var _ tokencount.Logger = Logger{}

// Logger adapts a *slog.Logger. Fields are only converted when the level is enabled.
type Logger struct{ L *stdslog.Logger }

func (s Logger) Debug(msg string, f tokencount.Fields) { s.log(stdslog.LevelDebug, msg, f) }
func (s Logger) Info(msg string, f tokencount.Fields)  { s.log(stdslog.LevelInfo, msg, f) }
func (s Logger) Warn(msg string, f tokencount.Fields)  { s.log(stdslog.LevelWarn, msg, f) }
func (s Logger) Error(msg string, f tokencount.Fields) { s.log(stdslog.LevelError, msg, f) }

func (s Logger) log(level stdslog.Level, msg string, f tokencount.Fields) {
	ctx := context.Background()
	if !s.L.Enabled(ctx, level) {
		return
	}
	attrs := make([]stdslog.Attr, 0, len(f))
	for k, v := range f {
		if err, ok := v.(error); ok {
			// JSON handlers render bare errors as {}
			attrs = append(attrs, stdslog.String(k, err.Error()))
			continue
		}
		attrs = append(attrs, stdslog.Any(k, v))
	}
	s.L.LogAttrs(ctx, level, msg, attrs...)
}
