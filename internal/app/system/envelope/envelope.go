// Package envelope writes the JSON response shape shared by every API route:
//
//	{ "success": bool, "data": ..., "message": "..." }
package envelope

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/limits"
	"go.uber.org/zap"
)

// Response is the wire envelope.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// JSON writes v as JSON with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes a 200 success envelope.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Response{Success: true, Data: data})
}

// Created writes a 201 success envelope.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, Response{Success: true, Data: data})
}

// Fail writes a failure envelope with an explicit status and message.
func Fail(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, Response{Success: false, Message: msg})
}

// Error translates err into a failure envelope. 5xx errors are logged with
// their cause; client errors are not.
func Error(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError && log != nil {
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	Fail(w, status, apperr.Message(err))
}

// Decode reads a JSON request body into dst. Bodies larger than
// limits.MaxJSONBody or malformed JSON are validation errors.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	return DecodeLimited(w, r, dst, limits.MaxJSONBody)
}

// DecodeLimited is Decode with an explicit byte limit.
func DecodeLimited(w http.ResponseWriter, r *http.Request, dst any, n int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, n)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("Request body must be valid JSON")
	}
	return nil
}
