package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "function and param",
			err: &Error{
				Phase:    PhasePair,
				Kind:     KindAmbiguousPairing,
				Function: "crypto_wipe",
				Param:    "size",
				Detail:   "2 unclaimed buffers precede it",
			},
			contains: []string{"pair", "ambiguous_pairing", "in crypto_wipe", "(parameter size)", "2 unclaimed"},
		},
		{
			name: "param only",
			err: &Error{
				Phase: PhasePair,
				Kind:  KindAmbiguousPairing,
				Param: "size",
			},
			contains: []string{"for parameter size"},
		},
		{
			name: "with cause",
			err: &Error{
				Phase: PhaseRender,
				Kind:  KindCommand,
				Cause: errors.New("exit status 1"),
			},
			contains: []string{"render: command", "caused by: exit status 1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("Error() = %q, want substring %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseRender,
		Kind:  KindIO,
		Cause: cause,
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
	if !errors.Is(fmt.Errorf("generating: %w", err), cause) {
		t.Error("cause not reachable through wrapping")
	}
}

func TestError_Is(t *testing.T) {
	err := Invariant(PhaseSynthesize, "crypto_lock", "parameter count mismatch")

	if !errors.Is(err, &Error{Phase: PhaseSynthesize, Kind: KindInvariant}) {
		t.Error("errors.Is should match same phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhasePair, Kind: KindInvariant}) {
		t.Error("Is should not match different phase")
	}
	if errors.Is(err, &Error{Phase: PhaseSynthesize, Kind: KindIO}) {
		t.Error("Is should not match different kind")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhasePair, KindAmbiguousPairing).
		Function("crypto_wipe").
		Param("size").
		Cause(cause).
		Detail("%d candidates", 2).
		Build()

	if err.Function != "crypto_wipe" || err.Param != "size" {
		t.Errorf("Function/Param = %q/%q", err.Function, err.Param)
	}
	if err.Detail != "2 candidates" {
		t.Errorf("Detail = %q, want '2 candidates'", err.Detail)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
}

func TestAmbiguousPairing(t *testing.T) {
	err := AmbiguousPairing("size", []string{"a", "b"})

	if err.Kind != KindAmbiguousPairing || err.Phase != PhasePair {
		t.Errorf("got %s/%s", err.Phase, err.Kind)
	}
	if !strings.Contains(err.Error(), "a, b") {
		t.Errorf("Error() = %q, want candidate list", err.Error())
	}
}

func TestWithFunction(t *testing.T) {
	if WithFunction(nil, PhasePair, "f") != nil {
		t.Error("nil error should stay nil")
	}

	orig := AmbiguousPairing("size", []string{"a", "b"})
	scoped := WithFunction(orig, PhasePair, "crypto_wipe")

	var e *Error
	if !errors.As(scoped, &e) {
		t.Fatal("expected *Error")
	}
	if e.Function != "crypto_wipe" {
		t.Errorf("Function = %q, want crypto_wipe", e.Function)
	}
	if orig.Function != "" {
		t.Error("original error was modified")
	}

	plain := WithFunction(errors.New("boom"), PhaseEmit, "crypto_lock")
	if !errors.As(plain, &e) || e.Kind != KindInvariant || e.Phase != PhaseEmit {
		t.Errorf("plain error not wrapped as invariant: %v", plain)
	}
}
