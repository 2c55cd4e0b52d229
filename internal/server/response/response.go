// Package response provides standardized HTTP response structures and helpers
// for the luga dashboard API. All API responses follow a consistent format
// with a data field for successful responses and an error field for failures.
package response

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/agentstation/luga/pkg/errors"
)

// Response represents the standardized API response structure.
type Response struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
}

// Error represents an API error with code, message, and optional details.
// Field names the upload or form field the error refers to, if any.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Field   string `json:"field,omitempty"`
}

// Error codes returned by the API.
const (
	CodeBadRequest           = "BAD_REQUEST"
	CodeNotFound             = "NOT_FOUND"
	CodeMethodNotAllowed     = "METHOD_NOT_ALLOWED"
	CodePayloadTooLarge      = "PAYLOAD_TOO_LARGE"
	CodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
	CodeUnreadableFile       = "UNREADABLE_FILE"
	CodeTypeMismatch         = "TYPE_MISMATCH"
	CodeRateLimited          = "RATE_LIMITED"
	CodeInternal             = "INTERNAL_ERROR"
)

// Success creates a successful response with data.
func Success(data any) Response {
	return Response{
		Data:  data,
		Error: nil,
	}
}

// Fail creates an error response.
func Fail(code, message, details string) Response {
	return Response{
		Data: nil,
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding errors are ignored as headers are already sent (best effort)
	_ = json.NewEncoder(w).Encode(resp)
}

// OK writes a successful response with 200 status.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Success(data))
}

// Created writes a successful response with 201 status.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, Success(data))
}

// BadRequest writes a 400 error response.
func BadRequest(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusBadRequest, Fail(CodeBadRequest, message, details))
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusNotFound, Fail(CodeNotFound, message, details))
}

// MethodNotAllowed writes a 405 error response.
func MethodNotAllowed(w http.ResponseWriter, method string) {
	JSON(w, http.StatusMethodNotAllowed, Fail(
		CodeMethodNotAllowed,
		"Method not allowed",
		"Method "+method+" is not supported for this endpoint",
	))
}

// PayloadTooLarge writes a 413 error response.
func PayloadTooLarge(w http.ResponseWriter, limit int64) {
	JSON(w, http.StatusRequestEntityTooLarge, Fail(
		CodePayloadTooLarge,
		"Upload too large",
		"Request body exceeds the limit of "+formatBytes(limit),
	))
}

// InternalError writes a 500 error response.
// The cause is logged by the caller and not exposed to the client.
func InternalError(w http.ResponseWriter, _ error) {
	JSON(w, http.StatusInternalServerError, Fail(
		CodeInternal,
		"Internal server error",
		"An unexpected error occurred",
	))
}

// Status returns the HTTP status and error code for err.
func Status(err error) (int, string) {
	switch {
	case errors.IsInvalidFileType(err):
		return http.StatusUnsupportedMediaType, CodeUnsupportedMediaType
	case errors.IsUnreadableFile(err):
		return http.StatusUnprocessableEntity, CodeUnreadableFile
	case errors.IsTypeMismatch(err):
		return http.StatusUnprocessableEntity, CodeTypeMismatch
	case errors.IsValidationError(err):
		return http.StatusBadRequest, CodeBadRequest
	case errors.IsNotFound(err):
		return http.StatusNotFound, CodeNotFound
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// ErrorFromType maps typed errors to appropriate HTTP responses.
func ErrorFromType(w http.ResponseWriter, err error) {
	FieldError(w, "", err)
}

// FieldError is ErrorFromType with the failing field named in the body.
// Internal errors never carry their message to the client.
func FieldError(w http.ResponseWriter, field string, err error) {
	status, code := Status(err)
	if status == http.StatusInternalServerError {
		InternalError(w, err)
		return
	}
	resp := Fail(code, err.Error(), "")
	resp.Error.Field = field
	JSON(w, status, resp)
}

func formatBytes(n int64) string {
	const unit = 1 << 20
	if n >= unit && n%unit == 0 {
		return strconv.FormatInt(n/unit, 10) + " MB"
	}
	return strconv.FormatInt(n, 10) + " bytes"
}
