package web

// errors.go provides unified error response handling for the web layer.
//
// It ensures all errors are:
//   - Logged with full technical details for debugging (server-side)
//   - Returned to clients as user-friendly messages with action suggestions
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err)
//  3. The error is classified into an HTTP status and a user message
//  4. Technical error + context is logged with request ID for correlation
//  5. The user message is written as JSON

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/covermaker/covermaker/internal/export"
	"github.com/covermaker/covermaker/internal/logging"
	"github.com/covermaker/covermaker/internal/pricing"
	"github.com/covermaker/covermaker/internal/store"
	"github.com/covermaker/covermaker/internal/template"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// userMessage provides user-friendly error information with actionable guidance.
type userMessage struct {
	Message string
	Action  string
	Code    string
}

// classify maps an error to an HTTP status and a user message. Typed errors
// from the store, importer, assembler and engine are handled first; anything
// unrecognized falls through to pattern matching on the error text.
func classify(err error) (int, userMessage) {
	var (
		notFound    *store.NotFoundError
		conflict    *store.ConflictError
		computation *pricing.ComputationError
		noTemplate  *export.NoTemplateError
	)

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, userMessage{
			Message: notFound.Error(),
			Action:  "Verify the ID or code and try again",
			Code:    "NOT_FOUND",
		}
	case errors.As(err, &conflict):
		return http.StatusBadRequest, userMessage{
			Message: conflict.Error(),
			Action:  "Use a different name or update the existing record",
			Code:    "CONFLICT",
		}
	case errors.As(err, &computation):
		return http.StatusBadRequest, userMessage{
			Message: computation.Error(),
			Action:  "Check the model, material and shipping rate data",
			Code:    "CANNOT_COMPUTE",
		}
	case errors.As(err, &noTemplate):
		return http.StatusBadRequest, userMessage{
			Message: noTemplate.Error(),
			Action:  "Link a template to the equipment type before exporting",
			Code:    "NO_TEMPLATE",
		}
	case errors.Is(err, export.ErrNoModels):
		return http.StatusBadRequest, userMessage{
			Message: "No models were selected for export",
			Action:  "Select at least one model",
			Code:    "NO_MODELS",
		}
	case errors.Is(err, export.ErrMixedEquipmentTypes):
		return http.StatusBadRequest, userMessage{
			Message: "The selected models belong to different equipment types",
			Action:  "Export one equipment type at a time",
			Code:    "MIXED_EQUIPMENT_TYPES",
		}
	case errors.Is(err, template.ErrImportBusy):
		return http.StatusTooManyRequests, userMessage{
			Message: "Another import for this template is already running",
			Action:  "Wait for it to finish and try again",
			Code:    "IMPORT_BUSY",
		}
	case errors.Is(err, template.ErrNoFieldsImported):
		return http.StatusBadRequest, userMessage{
			Message: "The workbook contained no usable field definitions",
			Action:  "Check that the Template sheet has a field name row",
			Code:    "EMPTY_TEMPLATE",
		}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, userMessage{
			Message: "The operation timed out",
			Action:  "Please try again",
			Code:    "TIMEOUT",
		}
	case errors.Is(err, context.Canceled):
		return http.StatusBadRequest, userMessage{
			Message: "The request was cancelled",
			Action:  "Please try again",
			Code:    "CANCELLED",
		}
	}

	return classifyByPattern(err)
}

// errorPattern defines a substring to match and its corresponding response.
type errorPattern struct {
	pattern string
	status  int
	msg     userMessage
}

// errorPatterns maps technical error text (case-insensitive) to responses.
// The first matching pattern wins, so more specific patterns come first.
var errorPatterns = []errorPattern{
	{
		pattern: "sheet not found",
		status:  http.StatusBadRequest,
		msg: userMessage{
			Message: "The workbook is missing an expected sheet",
			Action:  "Check the workbook against the marketplace template layout",
			Code:    "BAD_WORKBOOK",
		},
	},
	{
		pattern: "zip",
		status:  http.StatusBadRequest,
		msg: userMessage{
			Message: "The uploaded file is not a valid XLSX workbook",
			Action:  "Upload the template as .xlsx",
			Code:    "BAD_WORKBOOK",
		},
	},
	{
		pattern: "connection refused",
		status:  http.StatusServiceUnavailable,
		msg: userMessage{
			Message: "Unable to connect to the database",
			Action:  "Please try again in a few moments",
			Code:    "DB_UNAVAILABLE",
		},
	},
	{
		pattern: "connection reset",
		status:  http.StatusServiceUnavailable,
		msg: userMessage{
			Message: "The database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB_UNAVAILABLE",
		},
	},
	{
		pattern: "foreign key",
		status:  http.StatusBadRequest,
		msg: userMessage{
			Message: "A referenced record does not exist",
			Action:  "Create the parent record first",
			Code:    "BAD_REFERENCE",
		},
	},
}

func classifyByPattern(err error) (int, userMessage) {
	text := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(text, p.pattern) {
			return p.status, p.msg
		}
	}
	return http.StatusInternalServerError, userMessage{
		Message: "An unexpected error occurred",
		Action:  "Please try again or contact support",
		Code:    "INTERNAL",
	}
}

// respondError logs the technical error server-side and writes the
// classified user message as JSON.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// badRequest writes a 400 with a literal message, for request decoding and
// validation failures that never reach the classifier.
func (s *Server) badRequest(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   message,
		Message: message,
		Code:    "BAD_REQUEST",
	})
}
