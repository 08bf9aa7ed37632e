package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

type ctxKey int

const loggerKey ctxKey = 0

// WithLogger returns a context carrying l.
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// LoggerFrom returns the logger in ctx, or log.Default() if there is none.
func LoggerFrom(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// stageTimer logs how long a stage took at debug level.
type stageTimer struct {
	logger *log.Logger
	stage  Stage
	start  time.Time
}

func startStage(l *log.Logger, stage Stage) *stageTimer {
	return &stageTimer{logger: l, stage: stage, start: time.Now()}
}

func (t *stageTimer) done(keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(t.start).Round(time.Microsecond))
	t.logger.Debug(string(t.stage), keyvals...)
}
