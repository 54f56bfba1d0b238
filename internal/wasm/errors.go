package wasm

import "fmt"

// MalformedError reports a structural violation of the binary format: a bad
// magic/version, a section whose declared size doesn't match what was
// consumed, an illegal tag byte, an unknown opcode, and so on.
type MalformedError struct {
	Reason string
}

func (e *MalformedError) Error() string { return "malformed module: " + e.Reason }

// Malformedf builds a MalformedError from a format string and its
// arguments. It applies the caller's format as given; the decoder's callers
// print offending bytes in lowercase hex (0x%02x), not uppercase.
func Malformedf(format string, args ...any) *MalformedError {
	return &MalformedError{Reason: fmt.Sprintf(format, args...)}
}

// LinkerError reports an initialization-time inconsistency discovered while
// resolving globals, element segments, or data segments against another
// module's exports.
type LinkerError struct {
	Reason string
}

func (e *LinkerError) Error() string { return "linker error: " + e.Reason }

// Linkerf builds a LinkerError.
func Linkerf(format string, args ...any) *LinkerError {
	return &LinkerError{Reason: fmt.Sprintf(format, args...)}
}
