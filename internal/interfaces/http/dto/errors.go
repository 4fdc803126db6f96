package dto

import "net/http"

// Transport-level error codes. Business codes originate in the domain
// layer and pass through unchanged; these cover failures that never reach
// the application services.
const (
	ErrCodeInternal     = "ERR_INTERNAL"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeRateLimited  = "RATE_LIMIT_EXCEEDED"
	ErrCodeRequestLarge = "REQUEST_TOO_LARGE"
)

// errorCodeHTTPStatus maps every stable error code to its HTTP status.
// Business rule rejections map to 422 so clients can tell them apart from
// malformed input (400).
var errorCodeHTTPStatus = map[string]int{
	// transport
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
	ErrCodeRequestLarge: http.StatusRequestEntityTooLarge,

	// generic domain
	"NOT_FOUND":               http.StatusNotFound,
	"ALREADY_EXISTS":          http.StatusConflict,
	"INVALID_INPUT":           http.StatusBadRequest,
	"CONCURRENCY_CONFLICT":    http.StatusConflict,
	"UNAUTHORIZED":            http.StatusUnauthorized,
	"FORBIDDEN":               http.StatusForbidden,
	"INVALID_STATE":           http.StatusUnprocessableEntity,
	"TRANSIENT_STORE_FAILURE": http.StatusServiceUnavailable,

	// identity
	"INVALID_CREDENTIALS":   http.StatusUnauthorized,
	"ACCOUNT_DISABLED":      http.StatusUnauthorized,
	"INVALID_TOKEN":         http.StatusUnauthorized,
	"REFRESH_LIMIT_REACHED": http.StatusUnauthorized,
	"INVALID_ROLE":          http.StatusBadRequest,
	"INVALID_PASSWORD":      http.StatusBadRequest,

	// checkout and orders
	"EMPTY_CART":             http.StatusUnprocessableEntity,
	"NO_CUSTOMER_LINKED":     http.StatusUnprocessableEntity,
	"INCOMPLETE_PROFILE":     http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":     http.StatusUnprocessableEntity,
	"NO_BRANCH_ASSIGNED":     http.StatusUnprocessableEntity,
	"ILLEGAL_TRANSITION":     http.StatusUnprocessableEntity,
	"CANCEL_REQUIRES_REASON": http.StatusUnprocessableEntity,

	// returns
	"RETURN_WINDOW_EXPIRED":      http.StatusUnprocessableEntity,
	"QUANTITY_EXCEEDS_PURCHASED": http.StatusUnprocessableEntity,
	"PRODUCT_NOT_IN_ORDER":       http.StatusUnprocessableEntity,
	"NOT_AUTHORIZED":             http.StatusForbidden,
	"EXCHANGE_NO_RESTOCK":        http.StatusUnprocessableEntity,

	// billing
	"NON_POSITIVE_AMOUNT":    http.StatusUnprocessableEntity,
	"EXCEEDS_OUTSTANDING":    http.StatusUnprocessableEntity,
	"INVALID_PAYMENT_METHOD": http.StatusBadRequest,

	// catalog and partners
	"INVALID_RFC":           http.StatusBadRequest,
	"INVALID_DISCOUNT":      http.StatusBadRequest,
	"INVALID_MOVEMENT_TYPE": http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to
// 500 for codes it does not know
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
