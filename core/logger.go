package core

// Logger is any service that can log & report messages.
// extra args may be errors, map[string]interface{} or a LogPerson.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// LogPerson identifies the authenticated caller a log entry relates to.
type LogPerson struct {
	ID       string
	Username string
	Email    string
}
