package services

import (
	"context"

	"github.com/dmitrijs2005/multisession/internal/logging"
)

// Level is the severity of a user-facing notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier delivers short messages to the user. Notify must not block for
// long; it is called on the goroutine that ran the action.
type Notifier interface {
	Notify(level Level, message string)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(level Level, message string)

func (f NotifierFunc) Notify(level Level, message string) { f(level, message) }

// Notifiers fans every notification out to each element in order.
type Notifiers []Notifier

func (ns Notifiers) Notify(level Level, message string) {
	for _, n := range ns {
		n.Notify(level, message)
	}
}

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(l logging.Logger) *LogNotifier {
	return &LogNotifier{log: l.With("component", "notifier")}
}

func (n *LogNotifier) Notify(level Level, message string) {
	ctx := context.Background()
	switch level {
	case LevelError:
		n.log.Error(ctx, message)
	case LevelWarning:
		n.log.Warn(ctx, message)
	default:
		n.log.Info(ctx, message)
	}
}
