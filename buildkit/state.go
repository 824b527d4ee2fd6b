package buildkit

import "fmt"

// State is the lifecycle of one artifact within a release.
type State uint8

const (
	StatePending State = iota
	StateCompiling
	StateCompiled
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateCompiling:
		return "compiling"
	case StateCompiled:
		return "compiled"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// IsTerminal reports whether the state is final for this release.
func (s State) IsTerminal() bool {
	return s == StateCompiled || s == StateFailed
}

func allowedTransition(from, to State) bool {
	switch from {
	case StatePending:
		return to == StateCompiling
	case StateCompiling:
		return to == StateCompiled || to == StateFailed
	default:
		return false
	}
}

// transition validates and applies a state change. An invalid transition
// is a bug in the builder, surfaced as an error rather than a panic so a
// release run can report it.
func (a *Artifact) transition(to State) error {
	if !allowedTransition(a.State, to) {
		return fmt.Errorf("disallowed transition for %s/%s: %s -> %s",
			a.Ecosystem, a.Target, a.State, to)
	}
	a.State = to
	return nil
}
