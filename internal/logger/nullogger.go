package logger

// NullLogger discards everything. Tests use it.
type NullLogger struct{}

var _ Logger = (*NullLogger)(nil)

func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (l *NullLogger) Info(string, map[string]interface{})  {}
func (l *NullLogger) Warn(string, map[string]interface{})  {}
func (l *NullLogger) Error(error, map[string]interface{})  {}
func (l *NullLogger) Fatal(error, map[string]interface{})  {}
func (l *NullLogger) Debug(string, map[string]interface{}) {}
func (l *NullLogger) SetLevel(Level)                       {}
