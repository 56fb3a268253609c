package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the generation run the error occurred
type Phase string

const (
	PhaseConfig     Phase = "config"     // configuration loading
	PhaseParse      Phase = "parse"      // C header parsing
	PhaseResolve    Phase = "resolve"    // interop type resolution
	PhasePair       Phase = "pair"       // size/buffer pairing
	PhaseSynthesize Phase = "synthesize" // wrapper construction
	PhaseRender     Phase = "render"     // manual page rendering
	PhaseDocs       Phase = "docs"       // documentation extraction
	PhaseEmit       Phase = "emit"       // Go source emission
)

// Kind categorizes the error
type Kind string

const (
	KindAmbiguousPairing Kind = "ambiguous_pairing"
	KindInvariant        Kind = "invariant"
	KindNotFound         Kind = "not_found"
	KindInvalidInput     Kind = "invalid_input"
	KindCommand          Kind = "command"
	KindIO               Kind = "io"
	KindUnsupported      Kind = "unsupported"
)

// Error is the structured error type used throughout the generator
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Function string
	Param    string
	Detail   string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Phase))
	b.WriteString(": ")
	b.WriteString(string(e.Kind))

	if e.Function != "" {
		b.WriteString(" in ")
		b.WriteString(e.Function)
		if e.Param != "" {
			b.WriteString(" (parameter ")
			b.WriteString(e.Param)
			b.WriteByte(')')
		}
	} else if e.Param != "" {
		b.WriteString(" for parameter ")
		b.WriteString(e.Param)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Function sets the C function being processed
func (b *Builder) Function(name string) *Builder {
	b.err.Function = name
	return b
}

// Param sets the parameter being processed
func (b *Builder) Param(name string) *Builder {
	b.err.Param = name
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// AmbiguousPairing creates an error for a bare size parameter preceded by
// more than one unclaimed buffer.
func AmbiguousPairing(param string, candidates []string) *Error {
	return &Error{
		Phase:  PhasePair,
		Kind:   KindAmbiguousPairing,
		Param:  param,
		Detail: fmt.Sprintf("%d unclaimed buffers precede it: %s", len(candidates), strings.Join(candidates, ", ")),
	}
}

// Invariant creates an error for a violated generation invariant
func Invariant(phase Phase, function, detail string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindInvariant,
		Function: function,
		Detail:   detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// WithFunction returns a copy of err scoped to function when err is an
// *Error without a function set. Other errors are wrapped as invariant
// violations of the given phase.
func WithFunction(err error, phase Phase, function string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		c := *e
		if c.Function == "" {
			c.Function = function
		}
		return &c
	}
	return &Error{
		Phase:    phase,
		Kind:     KindInvariant,
		Function: function,
		Cause:    err,
	}
}
