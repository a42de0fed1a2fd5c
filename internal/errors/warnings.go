package errors

import "fmt"

// WarningSeverity represents the severity of a non-fatal diagnostic.
type WarningSeverity int

const (
	SeverityInfo WarningSeverity = iota
	SeverityWarning
)

// String returns the string representation of the severity.
func (s WarningSeverity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// DataQualityWarning reports a record value that could not be used as-is.
// It is emitted through the diagnostics callback and never aborts a render.
type DataQualityWarning struct {
	Field    string
	Raw      interface{}
	Record   int
	Severity WarningSeverity
}

// String formats the warning for log output.
func (w DataQualityWarning) String() string {
	return fmt.Sprintf("record %d field %q: non-numeric value %v coerced to 0", w.Record, w.Field, w.Raw)
}

// Diagnostics receives non-fatal warnings raised during layout and
// rendering. A nil Diagnostics is valid and drops all warnings.
type Diagnostics func(DataQualityWarning)

// Emit invokes the callback when it is non-nil.
func (d Diagnostics) Emit(w DataQualityWarning) {
	if d != nil {
		d(w)
	}
}
