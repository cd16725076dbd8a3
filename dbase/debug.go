package dbase

import (
	"io"
	"log"
	"os"
)

var (
	debug       = false
	debugLogger = log.New(os.Stdout, "[dbase] [DEBUG] ", log.LstdFlags)
)

// SetDebug enables or disables debug logging for the package.
func SetDebug(enabled bool) {
	debug = enabled
}

// SetOutput redirects debug log output. The default is os.Stdout.
func SetOutput(out io.Writer) {
	if out != nil {
		debugLogger.SetOutput(out)
	}
}

func debugf(format string, v ...interface{}) {
	if debug {
		debugLogger.Printf(format, v...)
	}
}
