package main

import (
	"fmt"
	"os"

	"github.com/subosito/gotenv"

	"github.com/Amaury/shasum/internal/log"
	"github.com/Amaury/shasum/internal/shasum"
)

// main loads an optional .env file, then delegates argument parsing and
// command handling to the shasum package.
func main() {
	// A missing .env is the common case.
	_ = gotenv.Load()
	log.Configure(os.Getenv("DEBUG") == "true")

	err := shasum.RunCLI(os.Args)
	log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(shasum.ExitCode(err))
	}
}
