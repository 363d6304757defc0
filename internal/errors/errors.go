// Package errors provides unified error handling with a structured ErrorCode.
// Codes map onto gRPC status codes and HTTP statuses so the same error can be
// surfaced over the WebSocket, REST and gRPC endpoints.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
)

// Domain is reported in the ErrorInfo detail of gRPC statuses.
const Domain = "ratiolens"

// ErrorCode identifies a class of failure.
type ErrorCode int32

const (
	ErrorCodeUnspecified ErrorCode = iota
	Unknown
	Internal
	InvalidArgument
	NotFound
	Unavailable
	Timeout
	Cancelled
	FrameInvalid
	FrameOutOfOrder
	ImageDecodeFailed
	ImageEncodeFailed
	CaptureFailed
	RateLimited
	ConfigInvalid
)

var codeNames = map[ErrorCode]string{
	ErrorCodeUnspecified: "ERROR_CODE_UNSPECIFIED",
	Unknown:              "UNKNOWN",
	Internal:             "INTERNAL",
	InvalidArgument:      "INVALID_ARGUMENT",
	NotFound:             "NOT_FOUND",
	Unavailable:          "UNAVAILABLE",
	Timeout:              "TIMEOUT",
	Cancelled:            "CANCELLED",
	FrameInvalid:         "FRAME_INVALID",
	FrameOutOfOrder:      "FRAME_OUT_OF_ORDER",
	ImageDecodeFailed:    "IMAGE_DECODE_FAILED",
	ImageEncodeFailed:    "IMAGE_ENCODE_FAILED",
	CaptureFailed:        "CAPTURE_FAILED",
	RateLimited:          "RATE_LIMITED",
	ConfigInvalid:        "CONFIG_INVALID",
}

func (c ErrorCode) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return codeNames[Unknown]
}

// parseCode is the inverse of String.
func parseCode(name string) ErrorCode {
	for c, n := range codeNames {
		if n == name {
			return c
		}
	}
	return Unknown
}

// grpcCodeMap maps ErrorCode to gRPC status codes.
var grpcCodeMap = map[ErrorCode]codes.Code{
	ErrorCodeUnspecified: codes.Unknown,
	Unknown:              codes.Unknown,
	Internal:             codes.Internal,
	InvalidArgument:      codes.InvalidArgument,
	NotFound:             codes.NotFound,
	Unavailable:          codes.Unavailable,
	Timeout:              codes.DeadlineExceeded,
	Cancelled:            codes.Canceled,
	FrameInvalid:         codes.InvalidArgument,
	FrameOutOfOrder:      codes.FailedPrecondition,
	ImageDecodeFailed:    codes.InvalidArgument,
	ImageEncodeFailed:    codes.Internal,
	CaptureFailed:        codes.Unavailable,
	RateLimited:          codes.ResourceExhausted,
	ConfigInvalid:        codes.InvalidArgument,
}

// httpStatusMap maps gRPC codes to HTTP statuses for the REST handlers.
var httpStatusMap = map[codes.Code]int{
	codes.InvalidArgument:    http.StatusBadRequest,
	codes.NotFound:           http.StatusNotFound,
	codes.Unavailable:        http.StatusServiceUnavailable,
	codes.DeadlineExceeded:   http.StatusGatewayTimeout,
	codes.Canceled:           499,
	codes.FailedPrecondition: http.StatusConflict,
	codes.ResourceExhausted:  http.StatusTooManyRequests,
}

// AppError is the base error type with structured error code and metadata.
type AppError struct {
	Code     ErrorCode
	Message  string
	Metadata map[string]string
	Cause    error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	s := fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
	if len(e.Metadata) > 0 {
		s += fmt.Sprintf(" %v", e.Metadata)
	}
	if e.Cause != nil {
		s += fmt.Sprintf(" caused by: %v", e.Cause)
	}
	return s
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *AppError) Unwrap() error { return e.Cause }

// GRPCCode returns the corresponding gRPC status code.
func (e *AppError) GRPCCode() codes.Code {
	if c, ok := grpcCodeMap[e.Code]; ok {
		return c
	}
	return codes.Unknown
}

// HTTPStatus returns the HTTP status used by REST handlers.
func (e *AppError) HTTPStatus() int {
	if s, ok := httpStatusMap[e.GRPCCode()]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// ToProto converts to a google.rpc.ErrorInfo message.
func (e *AppError) ToProto() *errdetails.ErrorInfo {
	info := &errdetails.ErrorInfo{Reason: e.Code.String(), Domain: Domain}
	if len(e.Metadata) > 0 {
		info.Metadata = e.Metadata
	}
	return info
}

// GRPCStatus returns a gRPC status with the ErrorInfo attached.
func (e *AppError) GRPCStatus() *status.Status {
	st := status.New(e.GRPCCode(), e.Error())
	if withDetail, err := st.WithDetails(e.ToProto()); err == nil {
		st = withDetail
	}
	return st
}

// New creates a new AppError with the given code and message.
func New(code ErrorCode, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

// Newf creates a new AppError with formatted message.
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with an AppError.
func Wrap(err error, code ErrorCode, msg string) *AppError {
	return &AppError{Code: code, Message: msg, Cause: err}
}

// Wrapf wraps an existing error with formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// WithMetadata adds metadata to an AppError.
func (e *AppError) WithMetadata(key, value string) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = value
	return e
}

// As returns the AppError in err's chain, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// FromGRPCError extracts AppError from a gRPC error if present.
func FromGRPCError(err error) *AppError {
	st, ok := status.FromError(err)
	if !ok {
		return &AppError{Code: Unknown, Message: err.Error(), Cause: err}
	}

	for _, detail := range st.Details() {
		if info, ok := detail.(*errdetails.ErrorInfo); ok && info.GetDomain() == Domain {
			return &AppError{
				Code:     parseCode(info.GetReason()),
				Message:  st.Message(),
				Metadata: info.GetMetadata(),
			}
		}
	}

	return &AppError{Code: fromGRPCCode(st.Code()), Message: st.Message()}
}

// fromGRPCCode maps gRPC codes back to our error codes (best effort).
func fromGRPCCode(c codes.Code) ErrorCode {
	switch c {
	case codes.InvalidArgument:
		return InvalidArgument
	case codes.NotFound:
		return NotFound
	case codes.Unavailable:
		return Unavailable
	case codes.DeadlineExceeded:
		return Timeout
	case codes.Canceled:
		return Cancelled
	case codes.Internal:
		return Internal
	case codes.FailedPrecondition:
		return FrameOutOfOrder
	case codes.ResourceExhausted:
		return RateLimited
	default:
		return Unknown
	}
}

// IsCode checks if an error has a specific error code.
func IsCode(err error, code ErrorCode) bool {
	if appErr, ok := As(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsRetryable returns true if the error is potentially retryable.
func IsRetryable(err error) bool {
	appErr, ok := As(err)
	if !ok {
		return false
	}
	switch appErr.Code {
	case Unavailable, Timeout, CaptureFailed, RateLimited:
		return true
	default:
		return false
	}
}

// Ensure ErrorInfo satisfies proto.Message for status details.
var _ proto.Message = (*errdetails.ErrorInfo)(nil)
