package logger

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
)

// hcl is the process-wide logger. The level is resolved once at startup
// from MODSERVE_LOG_LEVEL.
var hcl hclog.Logger

func init() {
	hcl = hclog.New(&hclog.LoggerOptions{
		Name:   "modserve",
		Output: os.Stdout,
		Level:  levelFromEnv(),
	})
}

func levelFromEnv() hclog.Level {
	lvl := hclog.LevelFromString(os.Getenv("MODSERVE_LOG_LEVEL"))
	if lvl == hclog.NoLevel {
		lvl = hclog.Debug // default level
	}
	return lvl
}

// Named returns a sub-logger for a host subsystem, such as the external
// plugin manager.
func Named(name string) hclog.Logger {
	return hcl.Named(name)
}

// Level check functions
func IsTraceEnabled() bool {
	return hcl.IsTrace()
}

func IsDebugEnabled() bool {
	return hcl.IsDebug()
}

func IsInfoEnabled() bool {
	return hcl.IsInfo()
}

func IsWarnEnabled() bool {
	return hcl.IsWarn()
}

func IsErrorEnabled() bool {
	return hcl.IsError()
}

// Trace level logging
func Tracef(format string, v ...interface{}) {
	if IsTraceEnabled() {
		hcl.Trace(fmt.Sprintf(format, v...))
	}
}

// Debug level logging
func Debugf(format string, v ...interface{}) {
	if IsDebugEnabled() {
		hcl.Debug(fmt.Sprintf(format, v...))
	}
}

// Info level logging
func Infof(format string, v ...interface{}) {
	if IsInfoEnabled() {
		hcl.Info(fmt.Sprintf(format, v...))
	}
}

func Infoln(msg string) {
	if IsInfoEnabled() {
		hcl.Info(msg)
	}
}

// Warn level logging
func Warnf(format string, v ...interface{}) {
	if IsWarnEnabled() {
		hcl.Warn(fmt.Sprintf(format, v...))
	}
}

// Error level logging
func Errorf(format string, v ...interface{}) {
	if IsErrorEnabled() {
		hcl.Error(fmt.Sprintf(format, v...))
	}
}
