// Package errors defines the service error type shared by the scoring pipeline
// and both transports. Each error code maps to one HTTP status; the gRPC layer
// derives its status codes from the same table.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/turtacn/credscore/pkg/constants"
)

// MetadataKeyReasons is the metadata key holding validation reasons.
const MetadataKeyReasons = "errors"

// ServiceError 带错误码与 HTTP 状态的结构化错误
type ServiceError interface {
	error
	Code() constants.ErrorCode
	HTTPStatus() int
	// Description is the stable client-facing text for the code.
	Description() string
	Unwrap() error
	WithCause(cause error) ServiceError
	WithMetadata(key string, value interface{}) ServiceError
	Metadata() map[string]interface{}
}

type kind struct {
	status      int
	description string
}

// kinds 错误码 -> 状态码与默认描述
var kinds = map[constants.ErrorCode]kind{
	constants.ErrCodeInvalidRequest: {http.StatusUnprocessableEntity,
		"The request body is missing a required field or a field is outside its allowed range."},
	constants.ErrCodeValidationFailed: {http.StatusBadRequest,
		"Application rejected due to validation errors"},
	constants.ErrCodeModelUnavailable: {http.StatusServiceUnavailable,
		"Model not loaded"},
	constants.ErrCodeUnauthorized: {http.StatusUnauthorized,
		"A valid bearer token is required for this resource."},
	constants.ErrCodeNotFound: {http.StatusNotFound,
		"The requested resource was not found"},
	constants.ErrCodeRateLimitExceeded: {http.StatusTooManyRequests,
		"Rate limit exceeded. Please try again later."},
	constants.ErrCodeDatabaseError: {http.StatusInternalServerError,
		"database operation failed"},
	constants.ErrCodeServerError: {http.StatusInternalServerError,
		"The server encountered an unexpected condition that prevented it from fulfilling the request."},
}

type serviceError struct {
	code     constants.ErrorCode
	kind     kind
	message  string
	cause    error
	metadata map[string]interface{}
}

func newError(code constants.ErrorCode, message string) *serviceError {
	k, ok := kinds[code]
	if !ok {
		k = kinds[constants.ErrCodeServerError]
	}
	return &serviceError{code: code, kind: k, message: message, metadata: map[string]interface{}{}}
}

func (e *serviceError) Error() string {
	if e.message == "" {
		return e.kind.description
	}
	return e.message
}

func (e *serviceError) Code() constants.ErrorCode        { return e.code }
func (e *serviceError) HTTPStatus() int                  { return e.kind.status }
func (e *serviceError) Description() string              { return e.kind.description }
func (e *serviceError) Unwrap() error                    { return e.cause }
func (e *serviceError) Metadata() map[string]interface{} { return e.metadata }

func (e *serviceError) WithCause(cause error) ServiceError {
	e.cause = cause
	return e
}

func (e *serviceError) WithMetadata(key string, value interface{}) ServiceError {
	e.metadata[key] = value
	return e
}

// ==================== 构造函数 ====================

// ErrInvalidRequest is a boundary schema failure (422).
func ErrInvalidRequest(message string) ServiceError {
	return newError(constants.ErrCodeInvalidRequest, message)
}

// ErrValidationFailed carries every business-rule violation in order (400).
func ErrValidationFailed(reasons []string) ServiceError {
	return newError(constants.ErrCodeValidationFailed,
		fmt.Sprintf("application rejected with %d validation error(s)", len(reasons))).
		WithMetadata(MetadataKeyReasons, append([]string(nil), reasons...))
}

// ErrModelUnavailable signals that no scorecard is loaded (503).
func ErrModelUnavailable(reason string) ServiceError {
	return newError(constants.ErrCodeModelUnavailable, reason)
}

func ErrServerError(message string) ServiceError {
	return newError(constants.ErrCodeServerError, message)
}

func ErrUnauthorized(message string) ServiceError {
	return newError(constants.ErrCodeUnauthorized, message)
}

func ErrNotFound(resource string) ServiceError {
	return newError(constants.ErrCodeNotFound, resource+" not found").WithMetadata("resource", resource)
}

// ErrRateLimitExceeded 限流错误，scope 为 "ip" 或 "grpc"
func ErrRateLimitExceeded(scope string, limit int) ServiceError {
	return newError(constants.ErrCodeRateLimitExceeded,
		fmt.Sprintf("rate limit of %d requests exceeded for %s", limit, scope)).
		WithMetadata("scope", scope).
		WithMetadata("limit", limit)
}

func ErrDatabaseOperation(operation string, cause error) ServiceError {
	return newError(constants.ErrCodeDatabaseError, "database operation "+operation+" failed").
		WithCause(cause).
		WithMetadata("operation", operation)
}

// ==================== 判定 ====================

// AsServiceError finds the first ServiceError in err's chain.
func AsServiceError(err error) (ServiceError, bool) {
	var svcErr ServiceError
	if err != nil && stderrors.As(err, &svcErr) {
		return svcErr, true
	}
	return nil, false
}

func hasCode(err error, code constants.ErrorCode) bool {
	svcErr, ok := AsServiceError(err)
	return ok && svcErr.Code() == code
}

// IsValidationFailed reports whether err is a business-rule rejection.
func IsValidationFailed(err error) bool { return hasCode(err, constants.ErrCodeValidationFailed) }

// IsModelUnavailable reports whether err signals a missing scoring model.
func IsModelUnavailable(err error) bool { return hasCode(err, constants.ErrCodeModelUnavailable) }

// Reasons returns the validation reasons attached to err, in order.
func Reasons(err error) []string {
	svcErr, ok := AsServiceError(err)
	if !ok {
		return nil
	}
	reasons, _ := svcErr.Metadata()[MetadataKeyReasons].([]string)
	return reasons
}

// ==================== 响应体 ====================

// ErrorResponse is the generic JSON error body.
type ErrorResponse struct {
	Error            string                 `json:"error"`
	ErrorDescription string                 `json:"error_description"`
	Errors           []string               `json:"errors,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

// ToErrorResponse lifts validation reasons into Errors and keeps other metadata as is.
func ToErrorResponse(err ServiceError) *ErrorResponse {
	resp := &ErrorResponse{Error: string(err.Code()), ErrorDescription: err.Description()}
	for k, v := range err.Metadata() {
		if k == MetadataKeyReasons {
			resp.Errors, _ = v.([]string)
			continue
		}
		if resp.Metadata == nil {
			resp.Metadata = map[string]interface{}{}
		}
		resp.Metadata[k] = v
	}
	return resp
}

// ToGenericErrorResponse maps any error, hiding the text of non-service errors.
func ToGenericErrorResponse(err error) *ErrorResponse {
	if svcErr, ok := AsServiceError(err); ok {
		return ToErrorResponse(svcErr)
	}
	return &ErrorResponse{
		Error:            string(constants.ErrCodeServerError),
		ErrorDescription: "An unexpected error occurred",
	}
}

//Personal.AI order the ending
