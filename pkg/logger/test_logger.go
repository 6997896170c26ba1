package logger

import (
	"sync"

	"github.com/rs/zerolog"
)

// TestLogger captures log messages for assertions in tests
type TestLogger struct {
	mu       sync.Mutex
	messages []LogMessage

	fields map[string]interface{}
	err    error
}

// LogMessage is a captured log entry
type LogMessage struct {
	Level   string
	Message string
	Fields  map[string]interface{}
	Error   error
}

// NewTestLogger creates a new test logger
func NewTestLogger() *TestLogger {
	return &TestLogger{}
}

func (l *TestLogger) log(level, msg string, fields map[string]interface{}) {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, LogMessage{
		Level:   level,
		Message: msg,
		Fields:  merged,
		Error:   l.err,
	})
}

func (l *TestLogger) Debug(msg string) { l.log("DEBUG", msg, nil) }
func (l *TestLogger) Info(msg string)  { l.log("INFO", msg, nil) }
func (l *TestLogger) Warn(msg string)  { l.log("WARN", msg, nil) }
func (l *TestLogger) Error(msg string) { l.log("ERROR", msg, nil) }
func (l *TestLogger) Fatal(msg string) { l.log("FATAL", msg, nil) }

func (l *TestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.log("DEBUG", msg, fields)
}

func (l *TestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.log("INFO", msg, fields)
}

func (l *TestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.log("WARN", msg, fields)
}

func (l *TestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.log("ERROR", msg, fields)
}

// derive shares the message slice so captures from child loggers are visible
// on the parent
func (l *TestLogger) derive() *TestLogger {
	child := &TestLogger{err: l.err, fields: make(map[string]interface{}, len(l.fields))}
	for k, v := range l.fields {
		child.fields[k] = v
	}
	return child
}

func (l *TestLogger) WithField(key string, value interface{}) Logger {
	child := l.derive()
	child.fields[key] = value
	return &sharedTestLogger{parent: l, ctx: child}
}

func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	child := l.derive()
	for k, v := range fields {
		child.fields[k] = v
	}
	return &sharedTestLogger{parent: l, ctx: child}
}

func (l *TestLogger) WithError(err error) Logger {
	child := l.derive()
	child.err = err
	return &sharedTestLogger{parent: l, ctx: child}
}

func (l *TestLogger) GetZerolog() *zerolog.Logger {
	nop := zerolog.Nop()
	return &nop
}

// Messages returns a copy of all captured log messages
func (l *TestLogger) Messages() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogMessage, len(l.messages))
	copy(out, l.messages)
	return out
}

// MessagesByLevel returns captured messages at the given level
func (l *TestLogger) MessagesByLevel(level string) []LogMessage {
	var filtered []LogMessage
	for _, msg := range l.Messages() {
		if msg.Level == level {
			filtered = append(filtered, msg)
		}
	}
	return filtered
}

// HasMessage reports whether a message with the given text was logged
func (l *TestLogger) HasMessage(text string) bool {
	for _, msg := range l.Messages() {
		if msg.Message == text {
			return true
		}
	}
	return false
}

// Clear discards all captured messages
func (l *TestLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = nil
}

// sharedTestLogger carries derived context but records into the root logger
type sharedTestLogger struct {
	parent *TestLogger
	ctx    *TestLogger
}

func (s *sharedTestLogger) record(level, msg string, fields map[string]interface{}) {
	merged := make(map[string]interface{}, len(s.ctx.fields)+len(fields))
	for k, v := range s.ctx.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	s.parent.messages = append(s.parent.messages, LogMessage{
		Level:   level,
		Message: msg,
		Fields:  merged,
		Error:   s.ctx.err,
	})
}

func (s *sharedTestLogger) Debug(msg string) { s.record("DEBUG", msg, nil) }
func (s *sharedTestLogger) Info(msg string)  { s.record("INFO", msg, nil) }
func (s *sharedTestLogger) Warn(msg string)  { s.record("WARN", msg, nil) }
func (s *sharedTestLogger) Error(msg string) { s.record("ERROR", msg, nil) }
func (s *sharedTestLogger) Fatal(msg string) { s.record("FATAL", msg, nil) }

func (s *sharedTestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	s.record("DEBUG", msg, fields)
}

func (s *sharedTestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	s.record("INFO", msg, fields)
}

func (s *sharedTestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	s.record("WARN", msg, fields)
}

func (s *sharedTestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	s.record("ERROR", msg, fields)
}

func (s *sharedTestLogger) WithField(key string, value interface{}) Logger {
	child := s.ctx.derive()
	child.fields[key] = value
	return &sharedTestLogger{parent: s.parent, ctx: child}
}

func (s *sharedTestLogger) WithFields(fields map[string]interface{}) Logger {
	child := s.ctx.derive()
	for k, v := range fields {
		child.fields[k] = v
	}
	return &sharedTestLogger{parent: s.parent, ctx: child}
}

func (s *sharedTestLogger) WithError(err error) Logger {
	child := s.ctx.derive()
	child.err = err
	return &sharedTestLogger{parent: s.parent, ctx: child}
}

func (s *sharedTestLogger) GetZerolog() *zerolog.Logger {
	return s.parent.GetZerolog()
}
