package branches

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"syscall"
)

// DefaultErrorMessage is returned by Classify for causes it cannot interpret.
const DefaultErrorMessage = "An unexpected error occurred. Please try again."

// ErrorKind is the category of a failed request.
type ErrorKind int

const (
	// ErrKindTransport means no response was obtained (DNS, refused, timeout, reset).
	ErrKindTransport ErrorKind = iota
	// ErrKindRejected means the server answered with a non-2xx status.
	ErrKindRejected
	// ErrKindParse means a 2xx response body could not be decoded.
	ErrKindParse
	// ErrKindValidation means the request was refused locally and never sent.
	ErrKindValidation
)

// String returns a human-readable name for the error kind
func (k ErrorKind) String() string {
	switch k {
	case ErrKindTransport:
		return "Transport Failure"
	case ErrKindRejected:
		return "Request Rejected"
	case ErrKindParse:
		return "Parse Error"
	case ErrKindValidation:
		return "Validation Error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// NetworkErrorSubtype narrows a transport failure.
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorTimeout
	NetworkErrorConnectionRefused
	NetworkErrorDNS
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
	NetworkErrorCanceled
)

// RequestError is the failure produced at the transport boundary.
type RequestError struct {
	Kind           ErrorKind           // Transport, Rejected, Parse or Validation
	Op             string              // Operation, e.g. "update branch"
	Method         string              // HTTP method (empty for validation errors)
	Path           string              // Request path relative to the base URL
	StatusCode     int                 // HTTP status (Rejected only)
	Message        string              // Server-supplied {message}, or a local description
	ServerMessage  bool                // Message came from the response body
	Err            error               // Underlying error (if any)
	NetworkSubtype NetworkErrorSubtype // Transport only
}

// Error implements the error interface
func (e *RequestError) Error() string {
	prefix := e.Kind.String()
	if e.Op != "" {
		prefix = e.Op + ": " + prefix
	}
	if e.StatusCode != 0 {
		prefix = fmt.Sprintf("%s (HTTP %d)", prefix, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *RequestError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError turns an error from http.Client.Do into a transport RequestError.
func ClassifyNetworkError(err error) *RequestError {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return &RequestError{
			Kind:           ErrKindTransport,
			Message:        "Request cancelled",
			Err:            err,
			NetworkSubtype: NetworkErrorCanceled,
		}
	}

	if os.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return &RequestError{
			Kind:           ErrKindTransport,
			Message:        "Request timed out",
			Err:            err,
			NetworkSubtype: NetworkErrorTimeout,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &RequestError{
			Kind:           ErrKindTransport,
			Message:        fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:            err,
			NetworkSubtype: NetworkErrorDNS,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			return &RequestError{
				Kind:           ErrKindTransport,
				Message:        "Connection refused",
				Err:            err,
				NetworkSubtype: NetworkErrorConnectionRefused,
			}
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH):
			return &RequestError{
				Kind:           ErrKindTransport,
				Message:        "Host unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorHostUnreachable,
			}
		case errors.Is(opErr.Err, syscall.ENETUNREACH):
			return &RequestError{
				Kind:           ErrKindTransport,
				Message:        "Network unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorNetworkUnreachable,
			}
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != err {
		return ClassifyNetworkError(urlErr.Err)
	}

	return &RequestError{
		Kind:           ErrKindTransport,
		Message:        "Network error occurred",
		Err:            err,
		NetworkSubtype: NetworkErrorGeneral,
	}
}

// NewTransportError creates a transport failure with automatic classification
func NewTransportError(op, method, path string, err error) *RequestError {
	e := ClassifyNetworkError(err)
	if e == nil {
		e = &RequestError{Kind: ErrKindTransport, Message: "Network error occurred"}
	}
	e.Op, e.Method, e.Path = op, method, path
	return e
}

// NewRejectedError creates an error for a non-2xx response. serverMessage is the
// decoded {message} field and may be empty.
func NewRejectedError(op, method, path string, statusCode int, serverMessage string) *RequestError {
	e := &RequestError{
		Kind:       ErrKindRejected,
		Op:         op,
		Method:     method,
		Path:       path,
		StatusCode: statusCode,
		Message:    serverMessage,
	}
	if serverMessage != "" {
		e.ServerMessage = true
	} else {
		e.Message = fmt.Sprintf("unexpected status code: %d", statusCode)
	}
	return e
}

// NewParseError creates a parsing error
func NewParseError(op, method, path string, err error) *RequestError {
	return &RequestError{
		Kind:    ErrKindParse,
		Op:      op,
		Method:  method,
		Path:    path,
		Message: "failed to parse response body",
		Err:     err,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *RequestError {
	return &RequestError{
		Kind:    ErrKindValidation,
		Message: message,
	}
}

func asRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}

// IsTransportError reports whether err is a transport failure.
func IsTransportError(err error) bool {
	e, ok := asRequestError(err)
	return ok && e.Kind == ErrKindTransport
}

// IsRejected reports whether err is a non-2xx response.
func IsRejected(err error) bool {
	e, ok := asRequestError(err)
	return ok && e.Kind == ErrKindRejected
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	e, ok := asRequestError(err)
	return ok && e.Kind == ErrKindParse
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	e, ok := asRequestError(err)
	return ok && e.Kind == ErrKindValidation
}

// IsNotFound reports a 404 rejection.
func IsNotFound(err error) bool {
	e, ok := asRequestError(err)
	return ok && e.Kind == ErrKindRejected && e.StatusCode == http.StatusNotFound
}

// IsAuthError reports a 401 or 403 rejection.
func IsAuthError(err error) bool {
	e, ok := asRequestError(err)
	return ok && e.Kind == ErrKindRejected &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// Classify maps a failure to the message shown to a user. It never panics:
// rejections carrying a server message return it verbatim, everything else
// gets a generic description.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	var batchErr *BatchError
	if errors.As(err, &batchErr) {
		return batchErr.Summary()
	}

	reqErr, ok := asRequestError(err)
	if !ok {
		if errors.Is(err, context.Canceled) {
			return "Request cancelled"
		}
		return DefaultErrorMessage
	}

	switch reqErr.Kind {
	case ErrKindRejected:
		if reqErr.ServerMessage {
			return reqErr.Message
		}
		return fmt.Sprintf("Request failed (HTTP %d)", reqErr.StatusCode)

	case ErrKindTransport:
		switch reqErr.NetworkSubtype {
		case NetworkErrorTimeout:
			return "API not responding (timeout)"
		case NetworkErrorConnectionRefused:
			return "API refused connection - check the base URL"
		case NetworkErrorDNS:
			return "Cannot resolve API hostname"
		case NetworkErrorHostUnreachable:
			return "API unreachable - check network connection"
		case NetworkErrorNetworkUnreachable:
			return "Network unreachable - check your connection"
		case NetworkErrorCanceled:
			return "Request cancelled"
		default:
			return "Network error - check connection"
		}

	case ErrKindParse:
		return "Failed to parse API response"

	case ErrKindValidation:
		return reqErr.Message

	default:
		return DefaultErrorMessage
	}
}

// Hints returns troubleshooting lines for an operator, or nil when there is
// nothing useful to add.
func Hints(err error) []string {
	reqErr, ok := asRequestError(err)
	if !ok {
		return nil
	}

	switch reqErr.Kind {
	case ErrKindTransport:
		switch reqErr.NetworkSubtype {
		case NetworkErrorTimeout:
			return []string{
				"The API did not respond in time.",
				"Try a larger --timeout, or check the API status page.",
			}
		case NetworkErrorDNS, NetworkErrorConnectionRefused:
			return []string{
				"Check the base URL (--base-url or RESERVECTL_BASE_URL).",
			}
		case NetworkErrorCanceled:
			return nil
		default:
			return []string{"Check your network connection and try again."}
		}

	case ErrKindRejected:
		switch {
		case reqErr.StatusCode == http.StatusUnauthorized:
			return []string{
				"The API token was rejected.",
				"Set RESERVECTL_API_TOKEN to a valid token.",
			}
		case reqErr.StatusCode == http.StatusForbidden:
			return []string{"The token lacks permission for this operation."}
		case reqErr.StatusCode == http.StatusNotFound:
			return []string{"Run 'reservectl show' to list valid ids."}
		case reqErr.StatusCode == http.StatusTooManyRequests:
			return []string{"Rate limited. Lower api.requests_per_second in the config file."}
		case reqErr.StatusCode >= 500:
			return []string{"The API failed internally. Try again later."}
		}

	case ErrKindParse:
		return []string{"The API returned an unexpected body. Check the base URL points at the API root."}
	}

	return nil
}
