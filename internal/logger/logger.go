// Package logger holds the logger used by the topmerge commands.
// The libraries (include, top) don't log, they return errors.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Logger is the global logger instance.
var Logger *log.Logger

// the log file currently open, if any.
var logFile *os.File

func init() {
	Logger = newLogger(os.Stderr, log.InfoLevel)
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{Prefix: "topmerge"})
	l.SetTimeFormat("")
	l.SetLevel(level)
	styles := log.DefaultStyles()
	styles.Keys["file"] = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	styles.Keys["error"] = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	styles.Values["error"] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	l.SetStyles(styles)
	return l
}

// Configure sets the level and the destination of the log. An empty
// level means the value of TOPMERGE_LOG_LEVEL, or info if that is not set either.
// An empty logFile means stderr. A log file opened by a previous call is closed.
// If the new file can't be opened, the logger is left as it was.
func Configure(logLevel string, fileName string) error {
	level := logLevel
	if level == "" {
		level = strings.ToLower(os.Getenv("TOPMERGE_LOG_LEVEL"))
	}
	var output io.Writer = os.Stderr
	var file *os.File
	if fileName != "" {
		var err error
		file, err = os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return err
		}
		output = file
	}
	closeLogFile()
	logFile = file
	Logger = newLogger(output, parseLogLevel(level))
	return nil
}

// SetOutput sends the log to w, keeping the level.
func SetOutput(w io.Writer) {
	closeLogFile()
	Logger = newLogger(w, Logger.GetLevel())
}

func closeLogFile() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

func parseLogLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg interface{}, keyvals ...interface{}) {
	Logger.Debug(msg, keyvals...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg interface{}, keyvals ...interface{}) {
	Logger.Info(msg, keyvals...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg interface{}, keyvals ...interface{}) {
	Logger.Warn(msg, keyvals...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg interface{}, keyvals ...interface{}) {
	Logger.Error(msg, keyvals...)
}

// Created reports that a file was written.
func Created(name string) {
	Logger.Info(name+" was created", "file", name)
}
