// Package errors provides structured error types for the protowire codec.
//
// Errors carry a Phase (where processing failed), a Kind (the failure
// category from the codec's taxonomy) and an optional field path into the
// record being processed, so a failure three submessages deep still names
// the exact field that caused it.
//
// Match failures by Phase/Kind prototype with the standard errors.Is:
//
//	if errors.Is(err, &Error{Phase: PhaseEncode, Kind: KindMissingRequiredField}) {
//	    // caller forgot to populate a required field
//	}
package errors
