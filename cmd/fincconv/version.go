package main

import (
	"fmt"
	"runtime"
)

// git commit used for this build; supplied at compile time
var gitCommit string

func version() string {
	commit := gitCommit
	if commit == "" {
		commit = "unknown"
	}

	return fmt.Sprintf("%s (%s %s/%s)", commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
