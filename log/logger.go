// Package log is the logging facade of the scraper. It logs nothing until
// SetLogger is called.
package log

import "go.uber.org/zap"

// Logger is the subset of zap.SugaredLogger used by the scraper.
type Logger interface {
	Info(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

var log Logger = zap.NewNop().Sugar()

// SetLogger sets the logger used by the package-level functions.
// Passing nil restores the no-op logger.
func SetLogger(logger Logger) {
	if logger == nil {
		log = zap.NewNop().Sugar()
		return
	}
	log = logger
}

// Info uses fmt.Sprint to construct and log a message.
func Info(args ...interface{}) {
	log.Info(args...)
}

// Debugf uses fmt.Sprintf to log a templated message.
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Infof uses fmt.Sprintf to log a templated message.
func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Debugw logs a message with some additional context.
func Debugw(msg string, keysAndValues ...interface{}) {
	log.Debugw(msg, keysAndValues...)
}

// Infow logs a message with some additional context.
func Infow(msg string, keysAndValues ...interface{}) {
	log.Infow(msg, keysAndValues...)
}

// Context prepends the same key-value pairs to every message, e.g. the URL
// of the card being processed. It always logs to the current package
// logger, so it can be created before SetLogger is called.
type Context struct {
	keysAndValues []interface{}
}

// With returns a Context carrying the given key-value pairs.
func With(keysAndValues ...interface{}) Context {
	return Context{keysAndValues: keysAndValues}
}

func (c Context) fields(keysAndValues []interface{}) []interface{} {
	fields := make([]interface{}, 0, len(c.keysAndValues)+len(keysAndValues))
	fields = append(fields, c.keysAndValues...)
	return append(fields, keysAndValues...)
}

// Debugw logs a message with the context and some additional pairs.
func (c Context) Debugw(msg string, keysAndValues ...interface{}) {
	log.Debugw(msg, c.fields(keysAndValues)...)
}

// Infow logs a message with the context and some additional pairs.
func (c Context) Infow(msg string, keysAndValues ...interface{}) {
	log.Infow(msg, c.fields(keysAndValues)...)
}

// Warnw logs a message with the context and some additional pairs.
func (c Context) Warnw(msg string, keysAndValues ...interface{}) {
	log.Warnw(msg, c.fields(keysAndValues)...)
}

// Errorw logs a message with the context and some additional pairs.
func (c Context) Errorw(msg string, keysAndValues ...interface{}) {
	log.Errorw(msg, c.fields(keysAndValues)...)
}
