package logging

import (
	"fmt"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

var _ retryablehttp.LeveledLogger = HTTPLogger{}

// HTTPLogger routes retryablehttp's leveled messages to Log, so request
// traces stay at debug level.
type HTTPLogger struct {
	entry *logrus.Entry
}

// NewHTTPLogger tags every line with component.
func NewHTTPLogger(component string) HTTPLogger {
	return HTTPLogger{entry: Log.WithField("component", component)}
}

func (l HTTPLogger) Error(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Error(msg)
}

func (l HTTPLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Warn(msg)
}

func (l HTTPLogger) Info(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Info(msg)
}

func (l HTTPLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Debug(msg)
}

func (l HTTPLogger) with(keysAndValues []interface{}) *logrus.Entry {
	entry := l.entry
	if entry == nil {
		entry = logrus.NewEntry(Log)
	}
	if len(keysAndValues) == 0 {
		return entry
	}
	fields := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return entry.WithFields(fields)
}
