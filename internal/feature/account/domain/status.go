// Package domain defines the result taxonomy shared by the account feature.
package domain

import "fmt"

// StatusCode is the closed set of outcomes an account operation can report.
type StatusCode int

const (
	StatusSuccess StatusCode = iota
	StatusAuthenticationFailed
	StatusForbidden
	StatusNotFound
	StatusSessionExpired
	StatusConflict
	StatusInvalidInput
	StatusInternalError
)

var statusNames = map[StatusCode]string{
	StatusSuccess:              "Success",
	StatusAuthenticationFailed: "AuthenticationFailed",
	StatusForbidden:            "Forbidden",
	StatusNotFound:             "NotFound",
	StatusSessionExpired:       "SessionExpired",
	StatusConflict:             "Conflict",
	StatusInvalidInput:         "InvalidInput",
	StatusInternalError:        "InternalError",
}

func (s StatusCode) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("StatusCode(%d)", int(s))
}

// Outcome is the status of an operation plus a detail message for failures.
// Detail never carries internal error text for StatusInternalError.
type Outcome struct {
	Code   StatusCode
	Detail string
}

// OK returns a successful outcome.
func OK() Outcome {
	return Outcome{Code: StatusSuccess}
}

// Fail returns a failed outcome with a formatted detail.
func Fail(code StatusCode, format string, args ...any) Outcome {
	return Outcome{Code: code, Detail: fmt.Sprintf(format, args...)}
}

// Internal returns the opaque outcome reported for unexpected failures.
func Internal() Outcome {
	return Outcome{Code: StatusInternalError, Detail: "internal server error"}
}

// Ok reports whether the outcome is a success.
func (o Outcome) Ok() bool {
	return o.Code == StatusSuccess
}
