// Package warn provides the WARN:-prefixed diagnostic logging used across
// the crawl/verify pipeline for non-fatal conditions (cache underflow,
// vote-threshold near-misses, malformed catalogue rows) that should reach
// the operator without aborting the run.
package warn

import "log"

func Printf(format string, args ...any) {
	log.Printf("WARN: "+format, args...)
}

func Print(msg string) {
	log.Print("WARN: " + msg)
}
