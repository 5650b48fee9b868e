package core

// Logger is any service that can log (and report) messages.
// Expected args: error, map[string]interface{} or a context value identifying the current account.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
