package analysis

import (
	"errors"
	"fmt"
)

// Code names the pipeline stage failure. Codes are stable: the error
// classifier and the failure log key on them, never on message text.
type Code string

const (
	CodeTextTooShort      Code = "TEXT_TOO_SHORT"
	CodeTextTooLong       Code = "TEXT_TOO_LONG"
	CodeInvalidLanguage   Code = "INVALID_LANGUAGE"
	CodeTemplateMissing   Code = "TEMPLATE_MISSING"
	CodeNetworkError      Code = "NETWORK_ERROR"
	CodeUpstreamError     Code = "UPSTREAM_ERROR"
	CodeEmptyReply        Code = "EMPTY_UPSTREAM_REPLY"
	CodeMalformedJSON     Code = "MALFORMED_JSON"
	CodeSchemaViolation   Code = "SCHEMA_VIOLATION"
	CodePersistenceFailed Code = "PERSISTENCE_FAILED"
	CodeDecryptionFailed  Code = "DECRYPTION_FAILED"

	// CodeUnknown is for anything that escaped stage classification
	CodeUnknown Code = "UNKNOWN"
)

// InputCode reports whether c is a caller-correctable input error.
// Input errors get specific localized messages; everything else
// collapses to one generic failure message.
func InputCode(c Code) bool {
	switch c {
	case CodeTextTooShort, CodeTextTooLong, CodeInvalidLanguage:
		return true
	}
	return false
}

// Error is the tagged failure produced by a pipeline stage.
// Detail is diagnostic context for logs only and must never reach the
// caller-facing reply.
type Error struct {
	Code   Code
	Field  string
	Detail string
	cause  error
}

func (e *Error) Error() string {
	msg := string(e.Code)
	if e.Field != "" {
		msg = fmt.Sprintf("%s: field %s", msg, e.Field)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.cause }

// E builds a stage error with optional diagnostic detail
func E(code Code, detail string) *Error {
	return &Error{Code: code, Detail: detail}
}

// Ef is E with a format string
func Ef(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Detail: fmt.Sprintf(format, args...)}
}

// Wrap builds a stage error around a cause
func Wrap(code Code, cause error, detail string) *Error {
	return &Error{Code: code, Detail: detail, cause: cause}
}

// Violation builds a SCHEMA_VIOLATION naming the first offending field
func Violation(field, detail string) *Error {
	return &Error{Code: CodeSchemaViolation, Field: field, Detail: detail}
}

// CodeOf extracts the stage code from an error chain
func CodeOf(err error) Code {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeUnknown
}

// ErrDecryptionFailed is returned by TextCodec.Decode when a ciphertext
// does not authenticate. Read paths map it to DecryptionFailedMarker
// per record instead of failing the whole listing.
var ErrDecryptionFailed = errors.New("ciphertext did not authenticate")
