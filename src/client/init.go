// Package main is the hey command line entry point
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/apimgr/hey/src/config"
)

// InitCLI prepares the process before any command runs:
// 1. Resolve log settings (env, .env, config file)
// 2. Open the rotating log file and install the default logger
//
// A log file that cannot be opened is not fatal.
func InitCLI() io.Closer {
	settings := config.LoadLogSettings(config.LoadOptions{})

	closer, err := InitLogging(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not initialize log file: %v\n", err)
	}
	return closer
}
