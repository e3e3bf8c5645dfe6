package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseRegister Phase = "register" // metadata registration
	PhaseEncode   Phase = "encode"   // record to wire bytes
	PhaseDecode   Phase = "decode"   // wire bytes to record
	PhaseValidate Phase = "validate" // presence validation
)

// Kind categorizes the error
type Kind string

const (
	KindMalformedVarint      Kind = "malformed_varint"
	KindUnexpectedEOF        Kind = "unexpected_eof"
	KindTruncatedMessage     Kind = "truncated_message"
	KindInvalidMetadata      Kind = "invalid_metadata"
	KindMissingRequiredField Kind = "missing_required_field"
	KindTypeMismatch         Kind = "type_mismatch"
	KindInvalidWireType      Kind = "invalid_wire_type"
	KindOverflow             Kind = "overflow"
	KindUnsupported          Kind = "unsupported"
	KindNotRegistered        Kind = "not_registered"
)

// Error is the structured error type used throughout the codec
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string // message type name, when known
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Type != "" {
		b.WriteString(" in ")
		b.WriteString(e.Type)
	}

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
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

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the message type name
func (b *Builder) Type(name string) *Builder {
	b.err.Type = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
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

// InvalidMetadata creates a registration-time metadata violation error
func InvalidMetadata(typeName, detail string) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindInvalidMetadata,
		Type:   typeName,
		Detail: detail,
	}
}

// MissingRequired creates a missing required field error
func MissingRequired(phase Phase, typeName string, path []string, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMissingRequiredField,
		Type:   typeName,
		Path:   path,
		Detail: fmt.Sprintf("required field %q not set", fieldName),
	}
}

// Truncated creates a truncated message error for a bounded region that
// was not exactly consumed by its fields
func Truncated(path []string, detail string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTruncatedMessage,
		Path:   path,
		Detail: detail,
	}
}

// TypeMismatch creates a value/kind mismatch error
func TypeMismatch(phase Phase, path []string, got, want string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		Detail: fmt.Sprintf("got %s, want %s", got, want),
	}
}

// Overflow creates an overflow error for a value that does not fit the
// declared field width
func Overflow(phase Phase, path []string, value any, targetKind string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Detail: fmt.Sprintf("value %v overflows %s", value, targetKind),
		Value:  value,
	}
}

// InvalidWireType creates an error for a wire type the codec cannot process
func InvalidWireType(path []string, wireType uint8) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidWireType,
		Path:   path,
		Detail: fmt.Sprintf("wire type %d", wireType),
		Value:  wireType,
	}
}

// NotRegistered creates an error for a shape missing from the registry
func NotRegistered(phase Phase, typeName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotRegistered,
		Type:   typeName,
		Detail: "shape not registered",
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
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
