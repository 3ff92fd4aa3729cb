package main

import (
	"os"

	"github.com/apimgr/hey/src/client/cmd"
)

func main() {
	logFile := InitCLI()

	code := cmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	os.Exit(code)
}
