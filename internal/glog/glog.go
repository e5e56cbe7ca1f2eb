// Package glog is a small leveled logger in the style used throughout the
// SeaweedFS codebase: severity-tagged output (INFO/WARNING/ERROR/FATAL) plus
// a verbosity gate (V(n)) for chatty diagnostic lines that should stay quiet
// in production. It intentionally does not try to be glog-compatible at the
// wire level; it only keeps the call-site ergonomics developers are used to.
package glog

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync/atomic"
)

type severity int32

const (
	infoLog severity = iota
	warningLog
	errorLog
	fatalLog
)

var severityName = [...]string{
	infoLog:    "INFO",
	warningLog: "WARNING",
	errorLog:   "ERROR",
	fatalLog:   "FATAL",
}

// fatalNoStacks makes a fatal log line exit the process with status 1
// instead of 255; Exit* variants set it.
var fatalNoStacks uint32

// verbosity is the active -v level; changeable at runtime via SetVerbosity,
// mirroring how glog lets operators bump -v without a restart.
var verbosity int32

func SetVerbosity(level int) {
	atomic.StoreInt32(&verbosity, int32(level))
}

func init() {
	if v := os.Getenv("HANDOFF_V"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			atomic.StoreInt32(&verbosity, int32(n))
		}
	}
}

type loggingT struct{}

var logging loggingT

func (loggingT) header(s severity) string {
	return "[" + severityName[s] + "] "
}

func (l loggingT) print(s severity, args ...interface{}) {
	log.Print(l.header(s) + fmt.Sprint(args...))
	l.maybeExit(s)
}

func (l loggingT) println(s severity, args ...interface{}) {
	log.Print(l.header(s) + fmt.Sprintln(args...))
	l.maybeExit(s)
}

func (l loggingT) printf(s severity, format string, args ...interface{}) {
	log.Print(l.header(s) + fmt.Sprintf(format, args...))
	l.maybeExit(s)
}

func (l loggingT) printDepth(s severity, _ int, args ...interface{}) {
	l.print(s, args...)
}

func (l loggingT) maybeExit(s severity) {
	if s != fatalLog {
		return
	}
	if atomic.LoadUint32(&fatalNoStacks) == 1 {
		os.Exit(1)
	}
	os.Exit(255)
}

// Verbose is returned by V and acts as a boolean gate: logging calls made
// through it are dropped unless the configured verbosity is high enough.
type Verbose bool

// V reports whether verbosity level is at least `level`.
func V(level int) Verbose {
	return Verbose(atomic.LoadInt32(&verbosity) >= int32(level))
}

func (v Verbose) Info(args ...interface{}) {
	if v {
		logging.print(infoLog, args...)
	}
}

func (v Verbose) Infoln(args ...interface{}) {
	if v {
		logging.println(infoLog, args...)
	}
}

func (v Verbose) Infof(format string, args ...interface{}) {
	if v {
		logging.printf(infoLog, format, args...)
	}
}

func Info(args ...interface{})                 { logging.print(infoLog, args...) }
func Infoln(args ...interface{})                { logging.println(infoLog, args...) }
func Infof(format string, args ...interface{})  { logging.printf(infoLog, format, args...) }

func Warning(args ...interface{})                { logging.print(warningLog, args...) }
func Warningln(args ...interface{})               { logging.println(warningLog, args...) }
func Warningf(format string, args ...interface{}) { logging.printf(warningLog, format, args...) }

func Error(args ...interface{})                { logging.print(errorLog, args...) }
func Errorln(args ...interface{})               { logging.println(errorLog, args...) }
func Errorf(format string, args ...interface{}) { logging.printf(errorLog, format, args...) }

func Fatal(args ...interface{})                { logging.print(fatalLog, args...) }
func Fatalln(args ...interface{})               { logging.println(fatalLog, args...) }
func Fatalf(format string, args ...interface{}) { logging.printf(fatalLog, format, args...) }

func Exit(args ...interface{}) {
	atomic.StoreUint32(&fatalNoStacks, 1)
	logging.print(fatalLog, args...)
}

func Exitf(format string, args ...interface{}) {
	atomic.StoreUint32(&fatalNoStacks, 1)
	logging.printf(fatalLog, format, args...)
}
