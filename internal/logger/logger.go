package logger

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
)

// Log flags
const (
	LstdFlags     = log.LstdFlags
	Lmicroseconds = log.Lmicroseconds
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow)
)

// Logger wraps the standard log.Logger with colored status helpers
type Logger struct {
	*log.Logger
}

// New creates a new logger
func New() *Logger {
	return &Logger{
		Logger: log.New(os.Stdout, "", log.LstdFlags),
	}
}

// NewWriter creates a new logger that writes to the provided writer
func NewWriter(w io.Writer) *Logger {
	return &Logger{
		Logger: log.New(w, "", log.LstdFlags),
	}
}

// SetOutput sets the output destination for the logger
func (l *Logger) SetOutput(w io.Writer) {
	l.Logger.SetOutput(w)
}

// SetFlags sets the output flags for the logger
func (l *Logger) SetFlags(flag int) {
	l.Logger.SetFlags(flag)
}

// SetColor enables or disables colored output globally
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// Successf logs a highlighted line
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Print(successColor.Sprint(fmt.Sprintf(format, args...)))
}

// Warnf logs a warning line
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.Print(warnColor.Sprint(fmt.Sprintf(format, args...)))
}
