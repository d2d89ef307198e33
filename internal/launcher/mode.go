package launcher

import "slices"

// Mode is how the runtime is started.
type Mode int

const (
	// ModeAttached replaces the launcher with the runtime.
	ModeAttached Mode = iota
	// ModeDetached starts the runtime in the background and exits after a
	// liveness check.
	ModeDetached
)

func (m Mode) String() string {
	if m == ModeDetached {
		return "detached"
	}
	return "attached"
}

// DetectMode looks for the daemonize flag among the caller's arguments.
// Only whole arguments match: --daemonized or -dp do not.
func DetectMode(args []string) Mode {
	if slices.Contains(args, "-d") || slices.Contains(args, "--daemonize") {
		return ModeDetached
	}
	return ModeAttached
}
