package core

// Logger is implemented by services/logger; args may include an error,
// a map of extra fields or a user.User for attribution.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}
