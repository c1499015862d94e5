// Package validation/middleware provides HTTP request validation middleware.
//
// SYSTEM ARCHITECTURE ROLE:
// This module validates presentation requests before they reach the API handlers,
// bridging HTTP request parsing with the schema validator.
//
// KEY RESPONSIBILITIES:
// - Read and decode JSON request bodies with a size limit
// - Split a request into the presentation and call-level options
// - Run ValidateSpec and ValidateOptions and reject invalid requests with 400
// - Hand the decoded spec to handlers through the request context
//
// INTEGRATION POINTS:
// - internal/api/server.go: /render, /validate and /export routes are wrapped with ValidateRequest
// - internal/errors/handlers.go: writeValidationError() uses HTTPErrorHandler for error responses
//
// REQUEST SHAPE:
// - {"spec": {...}, "options": {...}}: presentation plus call-level option overrides
// - {...}: a bare presentation object
package validation

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/dpshade/pocket-deck/internal/errors"
	"github.com/dpshade/pocket-deck/internal/models"
)

// MaxBodyBytes caps request bodies accepted by the middleware
const MaxBodyBytes = 8 << 20

type contextKey int

const requestKey contextKey = iota

// Request is the validated content of a presentation request
type Request struct {
	Raw     map[string]interface{}
	Result  *SpecResult
	Options *models.GenerationOptions
}

// RequestValidator provides middleware for HTTP request validation
type RequestValidator struct {
	validator *Validator
}

// NewRequestValidator creates a new request validator middleware
func NewRequestValidator(v *Validator) *RequestValidator {
	return &RequestValidator{validator: v}
}

// ValidateRequest decodes and validates the presentation in the request body.
// When reject is false, invalid specs are still passed on so handlers such as
// /validate can report the result themselves.
func (rv *RequestValidator) ValidateRequest(reject bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := rv.extractJSONBody(w, r)
			if err != nil {
				rv.writeValidationError(w, err)
				return
			}

			specRaw, optionsRaw, err := SplitRequest(body)
			if err != nil {
				rv.writeValidationError(w, err)
				return
			}

			req := &Request{Raw: specRaw}
			if optionsRaw != nil {
				opts, optResult := rv.validator.ValidateOptions(optionsRaw)
				if !optResult.Valid {
					rv.writeValidationError(w, optResult.ToAppError())
					return
				}
				req.Options = opts
			}

			result, err := rv.validator.ValidateSpec(specRaw)
			if err != nil {
				rv.writeValidationError(w, errors.Wrap(err, errors.ErrCodeInternalError, "validator misconfigured"))
				return
			}
			if reject && !result.Valid {
				rv.writeValidationError(w, result.ToAppError())
				return
			}
			req.Result = result

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestKey, req)))
		})
	}
}

// RequestFromContext returns the request stored by ValidateRequest
func RequestFromContext(ctx context.Context) (*Request, bool) {
	req, ok := ctx.Value(requestKey).(*Request)
	return req, ok
}

// SplitRequest separates the presentation from call-level options. A body
// without a "spec" key is treated as the presentation itself.
func SplitRequest(body map[string]interface{}) (map[string]interface{}, map[string]interface{}, error) {
	rawSpec, wrapped := body["spec"]
	if !wrapped {
		return body, nil, nil
	}

	spec, ok := rawSpec.(map[string]interface{})
	if !ok {
		return nil, nil, errors.InvalidInputError("'spec' must be an object")
	}

	var options map[string]interface{}
	if rawOptions, ok := body["options"]; ok && rawOptions != nil {
		options, ok = rawOptions.(map[string]interface{})
		if !ok {
			return nil, nil, errors.InvalidInputError("'options' must be an object")
		}
	}
	return spec, options, nil
}

// extractJSONBody reads the request body as a JSON object
func (rv *RequestValidator) extractJSONBody(w http.ResponseWriter, r *http.Request) (map[string]interface{}, error) {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "application/json") {
		return nil, errors.NewAppError(errors.ErrCodeInvalidFormat, "Content-Type must be application/json")
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return nil, errors.InvalidInputError("Failed to read request body").WithDetails(err.Error())
	}

	if len(body) == 0 {
		return nil, errors.InvalidInputError("Request body is empty")
	}

	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidFormat, "Invalid JSON in request body").WithDetails(err.Error())
	}

	return data, nil
}

// writeValidationError writes a validation error response
func (rv *RequestValidator) writeValidationError(w http.ResponseWriter, err error) {
	errorHandler := errors.NewHTTPErrorHandler(true)
	errorHandler.WriteHTTPError(w, err)
}

// SanitizeString sanitizes string input by removing dangerous characters
func SanitizeString(input string) string {
	// Remove null bytes and control characters
	cleaned := strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range cleaned {
		if r == '\n' || r == '\t' || r == '\r' || r >= 32 {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateIdentifier validates that a string is a valid theme or slide identifier
func ValidateIdentifier(id string) error {
	if id == "" {
		return errors.InvalidInputError("Identifier cannot be empty")
	}

	if len(id) > 64 {
		return errors.InvalidInputError("Identifier too long (max 64 characters)")
	}

	for _, r := range id {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_') {
			return errors.InvalidInputError("Identifier contains invalid characters (only alphanumeric, hyphens, and underscores allowed)")
		}
	}

	return nil
}
