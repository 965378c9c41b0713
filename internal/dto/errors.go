package dto

// BaseError is the single error body every endpoint returns.
// Code is machine oriented (snake_case); Fields is set for validation errors.
type BaseError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details string       `json:"details,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag,omitempty"`
}

// The aliases below share BaseError's shape and exist so swagger @Failure
// lines read per status.

// ValidationErrorResponse 400, code "validation_error".
type ValidationErrorResponse BaseError

// UnauthorizedErrorResponse 401, code "unauthorized".
type UnauthorizedErrorResponse BaseError

// ForbiddenErrorResponse 403, code "forbidden".
type ForbiddenErrorResponse BaseError

// NotFoundErrorResponse 404, code "not_found".
type NotFoundErrorResponse BaseError

// ConflictErrorResponse 409, codes "insufficient_stock", "order_not_payable", "invalid_transition", "category_exists", "already_reviewed".
type ConflictErrorResponse BaseError

// RateLimitedErrorResponse 429, code "rate_limited".
type RateLimitedErrorResponse BaseError

// InternalErrorResponse 500, code "internal_error".
type InternalErrorResponse BaseError

// PaymentFailedErrorResponse 502, code "payment_failed".
type PaymentFailedErrorResponse BaseError

func NewValidationError(msg string, fields []FieldError) ValidationErrorResponse {
	return ValidationErrorResponse(BaseError{Code: "validation_error", Message: msg, Fields: fields})
}
func NewConflictError(code, msg string) ConflictErrorResponse {
	return ConflictErrorResponse(BaseError{Code: code, Message: msg})
}
func NewUnauthorizedError(msg string) UnauthorizedErrorResponse {
	return UnauthorizedErrorResponse(BaseError{Code: "unauthorized", Message: msg})
}
func NewForbiddenError(msg string) ForbiddenErrorResponse {
	return ForbiddenErrorResponse(BaseError{Code: "forbidden", Message: msg})
}
func NewNotFoundError(msg string) NotFoundErrorResponse {
	return NotFoundErrorResponse(BaseError{Code: "not_found", Message: msg})
}
func NewRateLimitedError(msg string) RateLimitedErrorResponse {
	return RateLimitedErrorResponse(BaseError{Code: "rate_limited", Message: msg})
}
func NewPaymentFailedError(details string) PaymentFailedErrorResponse {
	return PaymentFailedErrorResponse(BaseError{Code: "payment_failed", Message: "payment could not be processed", Details: details})
}
func NewInternalError(details string) InternalErrorResponse {
	return InternalErrorResponse(BaseError{Code: "internal_error", Message: "internal server error", Details: details})
}
