package session

import "fmt"

// Severity classifies a Diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Diagnostic is one message on the error channel described in spec.md §6:
// a source location (opaque to the core, whatever the driver's AST
// attached to the offending node), a severity, and a human-readable
// message.
type Diagnostic struct {
	Loc      any
	Severity Severity
	Message  string
}

func (d Diagnostic) String() string {
	if d.Loc == nil {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %v: %s", d.Severity, d.Loc, d.Message)
}

// Diagnostics is an ordered sink of Diagnostic messages, accumulated over
// the lifetime of a Session.
type Diagnostics struct {
	entries []Diagnostic
}

// Add appends a diagnostic to the sink.
func (d *Diagnostics) Add(sev Severity, loc any, format string, a ...any) {
	d.entries = append(d.entries, Diagnostic{Loc: loc, Severity: sev, Message: fmt.Sprintf(format, a...)})
}

// Errorf is shorthand for Add(SeverityError, ...).
func (d *Diagnostics) Errorf(loc any, format string, a ...any) {
	d.Add(SeverityError, loc, format, a...)
}

// HasErrors reports whether any SeverityError diagnostic was recorded.
func (d *Diagnostics) HasErrors() bool {
	for _, e := range d.entries {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// All returns every recorded diagnostic, in the order they were added.
func (d *Diagnostics) All() []Diagnostic {
	return append([]Diagnostic(nil), d.entries...)
}
