package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // only failed invocations
	LevelPhase        // invocations + validation passes
	LevelDetail       // + execution attempts
	LevelDebug        // everything
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelPhase:
		return "phase"
	case LevelDetail:
		return "detail"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "off", "":
		return LevelOff, nil
	case "error":
		return LevelError, nil
	case "phase":
		return LevelPhase, nil
	case "detail":
		return LevelDetail, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|detail|debug)", s)
	}
}

// ShouldEmit reports whether an event of the given scope passes this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelError:
		return scope == ScopeDriver
	case LevelPhase:
		return scope <= ScopePass
	case LevelDetail:
		return scope <= ScopeAttempt
	case LevelDebug:
		return true
	}
	return false
}

// allows is the per-event filter used by tracers. At LevelError only the end
// of a failed invocation passes.
func (l Level) allows(ev *Event) bool {
	if ev == nil || l == LevelOff {
		return false
	}
	switch {
	case ev.Kind == KindHeartbeat:
		return true
	case l == LevelError:
		return ev.Scope == ScopeDriver && ev.Kind == KindSpanEnd && ev.Extra["success"] == "false"
	}
	return l.ShouldEmit(ev.Scope)
}
