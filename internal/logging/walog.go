package logging

import (
	"github.com/sirupsen/logrus"
	walog "go.mau.fi/whatsmeow/util/log"
)

// WALogger routes whatsmeow's module logs into logrus.
type WALogger struct {
	entry *logrus.Entry
}

var _ walog.Logger = (*WALogger)(nil)

func NewWALogger(logger logrus.FieldLogger, module string) *WALogger {
	return &WALogger{entry: logger.WithField("module", module)}
}

func (l *WALogger) Warnf(msg string, args ...interface{})  { l.entry.Warnf(msg, args...) }
func (l *WALogger) Errorf(msg string, args ...interface{}) { l.entry.Errorf(msg, args...) }
func (l *WALogger) Infof(msg string, args ...interface{})  { l.entry.Infof(msg, args...) }
func (l *WALogger) Debugf(msg string, args ...interface{}) { l.entry.Debugf(msg, args...) }

func (l *WALogger) Sub(module string) walog.Logger {
	parent, _ := l.entry.Data["module"].(string)
	if parent != "" {
		module = parent + "/" + module
	}
	return &WALogger{entry: l.entry.WithField("module", module)}
}
