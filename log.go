package fdc

import "log"

// Trace gates, one per subsystem, matching the teacher's per-feature debug
// booleans (diskDebug, diskSortDebug in lkesteloot-trs80emu/disk.go). Left
// false by default; a host emulator flips the ones it cares about.
var (
	TraceController = false
	TraceDMA        = false
	TraceClock      = false
	TraceBus        = false
)

var logger = log.Default()

// SetLogger replaces the package-wide logger used by trace output. Passing
// nil restores the standard library's default logger.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.Default()
	}
	logger = l
}

func tracef(gate bool, format string, args ...any) {
	if gate {
		logger.Printf(format, args...)
	}
}
