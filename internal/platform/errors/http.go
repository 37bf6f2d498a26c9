package errors

import (
	"fmt"
	"net/http"
)

// CodeFromHTTPStatus maps an upstream http status onto an ErrorCode
// 2xx and 3xx map to Unknown, callers only ask for failures
func CodeFromHTTPStatus(status int) ErrorCode {
	switch {
	case status == http.StatusUnauthorized:
		return ErrorCodeUnauthorized
	case status == http.StatusForbidden:
		return ErrorCodeForbidden
	case status == http.StatusNotFound:
		return ErrorCodeNotFound
	case status == http.StatusConflict:
		return ErrorCodeConflict
	case status == http.StatusTooManyRequests:
		return ErrorCodeTooManyRequests
	case status >= 500:
		return ErrorCodeUnavailable
	case status >= 400:
		return ErrorCodeInvalidArgument
	default:
		return ErrorCodeUnknown
	}
}

// FromHTTPStatus builds a coded error for an upstream response
func FromHTTPStatus(status int, format string, a ...any) error {
	return &Error{
		code: CodeFromHTTPStatus(status),
		msg:  fmt.Sprintf("%s (http %d)", fmt.Sprintf(format, a...), status),
	}
}

// IsTransient reports whether err carries a code a caller may retry
func IsTransient(err error) bool {
	switch CodeOf(err) {
	case ErrorCodeUnavailable, ErrorCodeTooManyRequests:
		return true
	}
	return false
}
