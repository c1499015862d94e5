// Package errors/handlers provides interface-specific error handling implementations.
//
// SYSTEM ARCHITECTURE ROLE:
// This module implements the interface layer of the error handling system, providing
// customized error formatting and handling for the CLI, the HTTP API and the TUI preview.
//
// KEY RESPONSIBILITIES:
// - Convert structured AppErrors into interface-appropriate error representations
// - Surface validation issues (path, expected, actual) to every interface
// - Map error codes to appropriate HTTP status codes for API responses
//
// ERROR FLOW:
// 1. The compile pipeline generates an AppError
// 2. Interface-specific handler processes the error
// 3. Handler formats error for display/response
// 4. Handler logs error for debugging
package errors

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ErrorHandler provides interface-specific error handling
type ErrorHandler interface {
	HandleError(err error) error
	FormatError(err error) string
}

// IssueLister is implemented by issue collections stored under the "issues" context key
type IssueLister interface {
	Lines() []string
}

// issueLines returns the human readable issue list carried by appErr, if any
func issueLines(appErr *AppError) []string {
	if appErr.Context == nil {
		return nil
	}
	if lister, ok := appErr.Context["issues"].(IssueLister); ok {
		return lister.Lines()
	}
	return nil
}

// CLIErrorHandler handles errors for CLI interface
type CLIErrorHandler struct {
	Verbose bool
}

// NewCLIErrorHandler creates a new CLI error handler
func NewCLIErrorHandler(verbose bool) *CLIErrorHandler {
	return &CLIErrorHandler{
		Verbose: verbose,
	}
}

// HandleError handles errors for CLI interface
func (h *CLIErrorHandler) HandleError(err error) error {
	appErr := GetAppError(err)

	if h.Verbose {
		log.Printf("[%s] %s: %s", appErr.Severity, appErr.Code, appErr.Error())
		if appErr.Cause != nil {
			log.Printf("Caused by: %v", appErr.Cause)
		}
	}

	return fmt.Errorf("%s", h.FormatError(appErr))
}

// FormatError formats an error for CLI display
func (h *CLIErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)

	var b strings.Builder
	switch appErr.Severity {
	case SeverityCritical:
		b.WriteString(fmt.Sprintf("❌ CRITICAL: %s", appErr.Message))
	case SeverityError:
		b.WriteString(fmt.Sprintf("❌ ERROR: %s", appErr.Message))
	case SeverityWarning:
		b.WriteString(fmt.Sprintf("⚠️  WARNING: %s", appErr.Message))
	case SeverityInfo:
		b.WriteString(fmt.Sprintf("ℹ️  INFO: %s", appErr.Message))
	default:
		b.WriteString(fmt.Sprintf("❌ %s", appErr.Message))
	}

	for _, line := range issueLines(appErr) {
		b.WriteString("\n  • ")
		b.WriteString(line)
	}

	if h.Verbose && appErr.Context != nil {
		if example, ok := appErr.Context["example"]; ok && example != nil {
			if data, err := json.MarshalIndent(example, "  ", "  "); err == nil {
				b.WriteString("\n  Example:\n  ")
				b.Write(data)
			}
		}
	}

	return b.String()
}

// HTTPErrorHandler handles errors for HTTP interface
type HTTPErrorHandler struct {
	IncludeDetails bool
}

// NewHTTPErrorHandler creates a new HTTP error handler
func NewHTTPErrorHandler(includeDetails bool) *HTTPErrorHandler {
	return &HTTPErrorHandler{
		IncludeDetails: includeDetails,
	}
}

// HandleError handles errors for HTTP interface
func (h *HTTPErrorHandler) HandleError(err error) error {
	appErr := GetAppError(err)

	log.Printf("[HTTP] [%s] %s: %s", appErr.Severity, appErr.Code, appErr.Error())
	if appErr.Cause != nil {
		log.Printf("Caused by: %v", appErr.Cause)
	}

	return appErr
}

// FormatError formats an error for HTTP response
func (h *HTTPErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)

	body := map[string]interface{}{
		"code":      appErr.Code,
		"message":   appErr.Message,
		"timestamp": appErr.Timestamp,
	}

	if h.IncludeDetails && appErr.Details != "" {
		body["details"] = appErr.Details
	}

	// Validation issues are always returned; clients cannot fix a spec without them.
	if appErr.Code == ErrCodeSpecValidation && appErr.Context != nil {
		if issues, ok := appErr.Context["issues"]; ok {
			body["issues"] = issues
		}
		if example, ok := appErr.Context["example"]; ok && example != nil {
			body["example"] = example
		}
	} else if h.IncludeDetails && appErr.Context != nil {
		body["context"] = appErr.Context
	}

	jsonBytes, _ := json.Marshal(map[string]interface{}{
		"success": false,
		"error":   body,
	})
	return string(jsonBytes)
}

// WriteHTTPError writes an error response to HTTP
func (h *HTTPErrorHandler) WriteHTTPError(w http.ResponseWriter, err error) {
	appErr := GetAppError(err)

	h.HandleError(appErr)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusCode(appErr))
	w.Write([]byte(h.FormatError(appErr)))
}

// StatusCode maps error codes to HTTP status codes
func StatusCode(err error) int {
	appErr := GetAppError(err)
	switch appErr.Code {
	case ErrCodeSpecValidation, ErrCodeInvalidInput, ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case ErrCodeChartDataShape:
		return http.StatusUnprocessableEntity
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadyExists:
		return http.StatusConflict
	case ErrCodeCollaboratorFailure:
		return http.StatusBadGateway
	case ErrCodeNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// TUIErrorHandler handles errors for TUI interface
type TUIErrorHandler struct {
	ShowDetails bool
}

// NewTUIErrorHandler creates a new TUI error handler
func NewTUIErrorHandler(showDetails bool) *TUIErrorHandler {
	return &TUIErrorHandler{
		ShowDetails: showDetails,
	}
}

// HandleError handles errors for TUI interface
func (h *TUIErrorHandler) HandleError(err error) error {
	appErr := GetAppError(err)

	// stdout belongs to bubbletea, so errors go to a file
	logToFile(appErr)

	return appErr
}

// FormatError formats an error for TUI display
func (h *TUIErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)

	message := appErr.Message
	if h.ShowDetails && appErr.Details != "" {
		message = fmt.Sprintf("%s\nDetails: %s", message, appErr.Details)
	}
	if lines := issueLines(appErr); len(lines) > 0 {
		message += "\n" + strings.Join(lines, "\n")
	}

	return message
}

// GetErrorStyle returns an icon and a color for TUI based on error severity
func (h *TUIErrorHandler) GetErrorStyle(err error) (string, string) {
	appErr := GetAppError(err)

	switch appErr.Severity {
	case SeverityCritical:
		return "🔥", "#ff0000"
	case SeverityError:
		return "❌", "#ff6b6b"
	case SeverityWarning:
		return "⚠️", "#feca57"
	case SeverityInfo:
		return "ℹ️", "#48cae4"
	default:
		return "❌", "#ff6b6b"
	}
}

// logToFile appends the error to ~/.pocket-deck/logs/error.log, failing silently
func logToFile(appErr *AppError) {
	logDir := os.Getenv("POCKET_DECK_HOME")
	if logDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		logDir = filepath.Join(home, ".pocket-deck")
	}
	logDir = filepath.Join(logDir, "logs")

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return
	}

	file, err := os.OpenFile(filepath.Join(logDir, "error.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer file.Close()

	logEntry := fmt.Sprintf("[%s] [%s] [%s] %s: %s",
		appErr.Timestamp.Format("2006-01-02 15:04:05"),
		appErr.Severity,
		appErr.Category,
		appErr.Code,
		appErr.Error())

	if appErr.Cause != nil {
		logEntry += fmt.Sprintf(" | Cause: %v", appErr.Cause)
	}

	if appErr.Context != nil {
		contextJSON, _ := json.Marshal(appErr.Context)
		logEntry += fmt.Sprintf(" | Context: %s", string(contextJSON))
	}

	file.WriteString(logEntry + "\n")
}
