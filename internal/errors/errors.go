// Package errors provides structured error types for the chartel rendering
// and export pipeline.
//
// Every error raised by the engine belongs to one of a small set of
// categories (validation, data fetch, unsupported chart type, rasterization,
// data quality) so that callers can branch on the failure class with
// errors.Is/errors.As instead of string matching. Errors carry an optional
// machine-readable code and arbitrary context values for diagnostics.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	// ErrorTypeValidation indicates a chart spec that failed schema
	// validation. Fatal: surfaced before any render attempt.
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeDataFetch indicates a data provider failure. The render is
	// skipped and any previously rendered scene is left untouched.
	ErrorTypeDataFetch ErrorType = "data_fetch"
	// ErrorTypeUnsupportedType indicates a spec.type with no registered
	// renderer.
	ErrorTypeUnsupportedType ErrorType = "unsupported_type"
	// ErrorTypeRasterization indicates the drawing surface was unavailable
	// during a bitmap or document export. Fatal to that export call only.
	ErrorTypeRasterization ErrorType = "rasterization"
	// ErrorTypeDataQuality indicates a non-numeric value was coerced to
	// zero. Non-fatal: rendering proceeds.
	ErrorTypeDataQuality ErrorType = "data_quality"
	// ErrorTypeConfig indicates invalid tool configuration.
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeIO indicates a filesystem or network failure outside the
	// data provider boundary.
	ErrorTypeIO ErrorType = "io"
	// ErrorTypeInternal indicates a bug in the engine itself.
	ErrorTypeInternal ErrorType = "internal"
)

// ChartError is a structured error type with context.
type ChartError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Component   string
	Recoverable bool
}

// Error implements the error interface.
func (e *ChartError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *ChartError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison by type and code.
func (e *ChartError) Is(target error) bool {
	var t *ChartError
	if errors.As(target, &t) {
		if t.Code == "" {
			return e.Type == t.Type
		}
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *ChartError) WithContext(key string, value interface{}) *ChartError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithComponent tags the error with the originating component.
func (e *ChartError) WithComponent(component string) *ChartError {
	e.Component = component
	return e
}

// Issue is one spec validation finding with the JSON path it applies to.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// ValidationError aggregates every issue found while validating a chart
// spec, so callers can surface the full list rather than the first failure.
type ValidationError struct {
	ChartError
	Issues []Issue
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return e.ChartError.Error()
	}
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.String()
	}
	return fmt.Sprintf("%s: %s", e.ChartError.Error(), strings.Join(msgs, "; "))
}

// NewValidationError creates a ValidationError from a list of issues.
func NewValidationError(issues ...Issue) *ValidationError {
	return &ValidationError{
		ChartError: ChartError{
			Type:    ErrorTypeValidation,
			Code:    "SPEC_INVALID",
			Message: fmt.Sprintf("chart spec failed validation (%d issue(s))", len(issues)),
		},
		Issues: issues,
	}
}

// NewDataFetchError wraps a data provider failure.
func NewDataFetchError(provider string, cause error) *ChartError {
	return &ChartError{
		Type:        ErrorTypeDataFetch,
		Code:        "FETCH_FAILED",
		Message:     fmt.Sprintf("data provider %q failed", provider),
		Cause:       cause,
		Recoverable: true,
	}
}

// NewUnsupportedTypeError names the chart type that has no renderer.
func NewUnsupportedTypeError(chartType string) *ChartError {
	return &ChartError{
		Type:    ErrorTypeUnsupportedType,
		Code:    "NO_RENDERER",
		Message: fmt.Sprintf("no renderer registered for chart type %q", chartType),
	}
}

// NewRasterizationError reports an unavailable drawing surface during a
// bitmap or paginated export.
func NewRasterizationError(message string, cause error) *ChartError {
	return &ChartError{
		Type:    ErrorTypeRasterization,
		Code:    "RASTER_UNAVAILABLE",
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError reports invalid tool configuration.
func NewConfigError(message string, cause error) *ChartError {
	return &ChartError{
		Type:    ErrorTypeConfig,
		Code:    "CONFIG_INVALID",
		Message: message,
		Cause:   cause,
	}
}

// NewInternalError reports an engine bug.
func NewInternalError(message string, cause error) *ChartError {
	return &ChartError{
		Type:    ErrorTypeInternal,
		Code:    "INTERNAL",
		Message: message,
		Cause:   cause,
	}
}

// IsType reports whether err (or anything it wraps) is a ChartError of the
// given type.
func IsType(err error, t ErrorType) bool {
	var ce *ChartError
	if errors.As(err, &ce) {
		return ce.Type == t
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Type == t
	}
	return false
}
