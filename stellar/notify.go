package stellar

import (
	"go.uber.org/zap"
)

// Notification is the single user-facing message for a finished payment attempt
type Notification struct {
	AttemptID string
	Success   bool
	Message   string
	Code      string // error code, empty on success
	Hash      string // transaction hash, set on success
	Network   string
}

// Notifier delivers payment outcome notifications
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// LogNotifier writes notifications to the log
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogNotifier{log: log}
}

func (l *LogNotifier) Notify(n Notification) {
	fields := []zap.Field{
		zap.String("attempt", n.AttemptID),
		zap.String("network", n.Network),
	}
	if n.Success {
		l.log.Info(n.Message, append(fields, zap.String("hash", n.Hash))...)
		return
	}
	l.log.Warn(n.Message, append(fields, zap.String("code", n.Code))...)
}
