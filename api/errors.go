package api

import (
	"encoding/json"
	"net/http"
)

const (
	CodeMissingURL       = "MISSING_URL"
	CodeInvalidURL       = "INVALID_URL"
	CodeRateLimited      = "RATE_LIMITED"
	CodeUnsupported      = "UNSUPPORTED"
	CodeExtractionFailed = "EXTRACTION_FAILED"
	CodeMissingAssets    = "MISSING_ASSETS"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeForbidden        = "FORBIDDEN"
	CodeFetchError       = "FETCH_ERROR"
	CodeInvalidData      = "INVALID_DATA"
	CodeCacheFailed      = "CACHE_FAILED"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func respondJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, statusCode int, code, message string) {
	respondJSON(w, statusCode, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}
