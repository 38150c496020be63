package diag

// Severity defines the importance of an issue.
type Severity uint8

const (
	// SevInfo is for informational output of tooling commands.
	SevInfo Severity = iota
	// SevWarning is advisory and never blocks execution.
	SevWarning
	// SevError blocks execution.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label is the lowercase form used in tool results and JSON.
func (s Severity) Label() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}
