package untex

import (
	"log"
	"os"
)

// Logger is where the generator and matcher report progress and non-fatal
// failures: dropped render jobs, DP attempt traces under -v. It is a plain
// package-level *log.Logger rather than a structured logging library,
// matching the only logging style anything in the retrieved corpus uses.
var Logger = log.New(os.Stderr, "untex: ", log.Ltime|log.Lmicroseconds)

// Verbose gates the DP matcher's per-attempt trace. cmd/untex's -v flag
// sets it.
var Verbose = false

func logf(format string, args ...any) {
	Logger.Printf(format, args...)
}

func vlogf(format string, args ...any) {
	if Verbose {
		Logger.Printf(format, args...)
	}
}
