package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/tournament-engine/internal/platform/resilience"
	"github.com/riskibarqy/tournament-engine/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	apiVersion  = "2.0"
	errorDomain = "tournament-engine"
)

// envelope follows the Google JSON style guide: data on success, error
// otherwise.
type envelope struct {
	APIVersion string    `json:"apiVersion"`
	Data       any       `json:"data,omitempty"`
	Error      *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Status  string         `json:"status"`
	Errors  []apiErrorItem `json:"errors,omitempty"`
}

type apiErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type errorClass struct {
	httpStatus int
	reason     string
	status     string
	matches    []error
}

var internalClass = errorClass{httpStatus: http.StatusInternalServerError, reason: "internalError", status: "INTERNAL"}

// errorClasses is checked in order; the first sentinel match wins.
var errorClasses = []errorClass{
	{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT", []error{usecase.ErrInvalidInput, usecase.ErrInvalidMetric}},
	{http.StatusNotFound, "notFound", "NOT_FOUND", []error{usecase.ErrNotFound}},
	{http.StatusConflict, "invalidState", "FAILED_PRECONDITION", []error{usecase.ErrInvalidState, usecase.ErrInvalidMatchState}},
	{http.StatusUnprocessableEntity, "invalidConfiguration", "FAILED_PRECONDITION", []error{
		usecase.ErrMissingConfiguration,
		usecase.ErrInsufficientParticipants,
		usecase.ErrInvalidConfiguration,
		usecase.ErrUnsupportedSystem,
	}},
	{http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED", []error{usecase.ErrUnauthorized}},
	{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE", []error{usecase.ErrDependencyUnavailable, resilience.ErrCircuitOpen}},
}

func classify(err error) errorClass {
	for _, class := range errorClasses {
		for _, target := range class.matches {
			if errors.Is(err, target) {
				return class
			}
		}
	}
	return internalClass
}

// writeJSON encodes into a pooled buffer first so an encoding failure can
// still become a clean 500.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	w.Header().Set("Content-Type", "application/json")
	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"apiVersion":"2.0","error":{"code":500,"message":"encode response","status":"INTERNAL"}}`))
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(buf.B)
}

func writeSuccess(_ context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{APIVersion: apiVersion, Data: data})
}

// writeError hides the message of unclassified errors and marks the request
// span failed for them.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	class := classify(err)
	message := err.Error()
	if class.httpStatus >= http.StatusInternalServerError {
		span := trace.SpanFromContext(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, class.reason)
		if class.httpStatus == http.StatusInternalServerError {
			message = "internal server error"
		}
	}
	writeErrorBody(w, class, message)
}

func writeInternalError(_ context.Context, w http.ResponseWriter) {
	writeErrorBody(w, internalClass, "internal server error")
}

func writeErrorBody(w http.ResponseWriter, class errorClass, message string) {
	writeJSON(w, class.httpStatus, envelope{
		APIVersion: apiVersion,
		Error: &apiError{
			Code:    class.httpStatus,
			Message: message,
			Status:  class.status,
			Errors:  []apiErrorItem{{Domain: errorDomain, Reason: class.reason, Message: message}},
		},
	})
}
