// Package errors provides structured error types for the wrapper generator.
//
// Errors are categorized by Phase (which stage of generation failed) and Kind
// (error category). The Error type carries the function and parameter being
// processed and an optional cause.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhasePair, errors.KindAmbiguousPairing).
//		Function("crypto_wipe").
//		Param("size").
//		Detail("2 unclaimed buffers precede the size parameter").
//		Build()
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
