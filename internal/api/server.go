// Package api provides the RESTful HTTP API for pocket-deck.
//
// SYSTEM ARCHITECTURE ROLE:
// This module implements the HTTP interface layer, exposing presentation
// rendering, validation and export to any HTTP client.
//
// KEY RESPONSIBILITIES:
// - Route requests with chi and apply the shared middleware stack
// - Validate presentation bodies before they reach handlers
// - Standardize JSON responses with the APIResponse envelope
// - Map AppErrors to HTTP status codes through HTTPErrorHandler
//
// INTEGRATION POINTS:
// - internal/service/service.go: every handler calls the service facade
// - internal/validation/middleware.go: ValidateRequest decodes and checks {spec, options} bodies
// - internal/errors/handlers.go: HTTPErrorHandler formats error responses
// - internal/api/openapi.go: OpenAPI document at /api/openapi.json, docs UI at /api/docs
//
// MIDDLEWARE STACK:
// - RequestID, RealIP and Logger from chi
// - CORS headers for browser clients
// - Panic recovery that answers with a JSON INTERNAL_ERROR
//
// ENDPOINT STRUCTURE:
// - POST /api/v1/render: render a deck (?format=html returns the document itself)
// - POST /api/v1/validate: validate a deck and return every issue
// - POST /api/v1/export/{format}: html, pdf or json download
// - GET /api/v1/capabilities, /api/v1/themes, /api/v1/themes/{id}, /api/v1/health
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gosimple/slug"

	"github.com/dpshade/pocket-deck/internal/errors"
	"github.com/dpshade/pocket-deck/internal/export"
	"github.com/dpshade/pocket-deck/internal/service"
	"github.com/dpshade/pocket-deck/internal/validation"
)

// APIServer serves the HTTP API
type APIServer struct {
	service      *service.Service
	requests     *validation.RequestValidator
	errorHandler *errors.HTTPErrorHandler
	addr         string
	version      string
	started      time.Time
	server       *http.Server
}

// NewAPIServer creates a new API server instance
func NewAPIServer(svc *service.Service, addr string, version string) *APIServer {
	return &APIServer{
		service:      svc,
		requests:     validation.NewRequestValidator(svc.Validator()),
		errorHandler: errors.NewHTTPErrorHandler(true),
		addr:         addr,
		version:      version,
		started:      time.Now(),
	}
}

// Router builds the chi router with all routes
func (s *APIServer) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(s.corsMiddleware)
	r.Use(s.errorMiddleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, errors.NotFoundError("route "+r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, errors.NewAppError(errors.ErrCodeInvalidInput, "Method not allowed").
			WithContext("method", r.Method))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/capabilities", s.handleCapabilities)
		r.Get("/themes", s.handleThemes)
		r.Get("/themes/{id}", s.handleTheme)

		r.With(s.requests.ValidateRequest(true)).Post("/render", s.handleRender)
		r.With(s.requests.ValidateRequest(false)).Post("/validate", s.handleValidate)
		r.With(s.requests.ValidateRequest(true)).Post("/export/{format}", s.handleExport)
	})

	r.Get("/api/openapi.json", s.handleOpenAPISpec)
	r.Get("/api/docs", s.handleOpenAPI)

	return r
}

// Start begins serving HTTP requests
func (s *APIServer) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("[API] server starting on http://%s", s.addr)
	log.Printf("[API] OpenAPI documentation: http://%s/api/docs", s.addr)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server
func (s *APIServer) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// corsMiddleware handles CORS headers
func (s *APIServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// errorMiddleware turns panics into JSON error responses
func (s *APIServer) errorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Printf("[API] panic in %s %s: %v", r.Method, r.URL.Path, rec)
				s.writeError(w, errors.InternalError("Internal server error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// APIResponse represents a standardized API response
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	Error     interface{} `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// writeResponse writes a standardized JSON response
func (s *APIServer) writeResponse(w http.ResponseWriter, data interface{}, message string, statusCode int) {
	response := APIResponse{
		Success:   statusCode < 400,
		Data:      data,
		Message:   message,
		Timestamp: time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		json.NewEncoder(w).Encode(response)
		return
	}
	w.Write(jsonData)
}

// writeError writes an error response using the error handler
func (s *APIServer) writeError(w http.ResponseWriter, err error) {
	s.errorHandler.WriteHTTPError(w, err)
}

// request returns the validated request stored by the validation middleware
func (s *APIServer) request(w http.ResponseWriter, r *http.Request) (*validation.Request, bool) {
	req, ok := validation.RequestFromContext(r.Context())
	if !ok || req.Result == nil {
		s.writeError(w, errors.InternalError("request was not validated"))
		return nil, false
	}
	return req, true
}

// handleRender handles POST /api/v1/render
func (s *APIServer) handleRender(w http.ResponseWriter, r *http.Request) {
	req, ok := s.request(w, r)
	if !ok {
		return
	}

	doc, err := s.service.Render(req.Result.Spec, req.Options)
	if err != nil {
		s.writeError(w, err)
		return
	}
	for _, warning := range req.Result.Warnings {
		doc.Metadata.Warnings = append(doc.Metadata.Warnings, warning.String())
	}

	if r.URL.Query().Get("format") == "html" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Slide-Count", fmt.Sprint(doc.Metadata.SlideCount))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(doc.HTML))
		return
	}

	s.writeResponse(w, doc, fmt.Sprintf("Rendered %d slides", doc.Metadata.SlideCount), http.StatusOK)
}

// handleValidate handles POST /api/v1/validate. Invalid specs are a
// successful call; the result carries the issues.
func (s *APIServer) handleValidate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.request(w, r)
	if !ok {
		return
	}

	message := "Spec is valid"
	if !req.Result.Valid {
		message = fmt.Sprintf("Spec has %d issue(s)", len(req.Result.Issues))
	}
	s.writeResponse(w, req.Result.ValidationResult, message, http.StatusOK)
}

// handleExport handles POST /api/v1/export/{format}
func (s *APIServer) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	req, ok := s.request(w, r)
	if !ok {
		return
	}

	res, err := s.service.ExportSpec(format, req.Result.Spec, req.Options)
	if err != nil {
		s.writeError(w, err)
		return
	}

	filename := slugify(req.Result.Spec.Title) + res.Extension
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(res.Data)
}

// handleCapabilities handles GET /api/v1/capabilities
func (s *APIServer) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, s.service.Capabilities(), "", http.StatusOK)
}

// handleThemes handles GET /api/v1/themes
func (s *APIServer) handleThemes(w http.ResponseWriter, r *http.Request) {
	themes := s.service.Themes()
	s.writeResponse(w, themes, fmt.Sprintf("%d themes", len(themes)), http.StatusOK)
}

// handleTheme handles GET /api/v1/themes/{id}
func (s *APIServer) handleTheme(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validation.ValidateIdentifier(id); err != nil {
		s.writeError(w, err)
		return
	}
	t, err := s.service.Theme(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, t, "", http.StatusOK)
}

// handleHealth handles GET /api/v1/health
func (s *APIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	caps := s.service.Capabilities()
	s.writeResponse(w, map[string]interface{}{
		"status":     "ok",
		"version":    s.version,
		"uptime":     time.Since(s.started).Round(time.Second).String(),
		"slideKinds": len(caps.SlideKinds),
		"themes":     len(caps.Themes),
	}, "", http.StatusOK)
}

// slugify turns a deck title into a download file name
func slugify(title string) string {
	if s := slug.Make(title); s != "" {
		return s
	}
	return "presentation"
}
