package security

import "go.uber.org/zap/zapcore"

// Severity represents the severity level of a security event.
// It is derived from the EventType, never from user input.
type Severity string

const (
	SeverityINFO     Severity = "INFO"
	SeverityMEDIUM   Severity = "MEDIUM"
	SeverityWARN     Severity = "WARN"
	SeverityHIGH     Severity = "HIGH"
	SeverityCRITICAL Severity = "CRITICAL"
)

// EventSeverityMap defines the hard-coded severity for each event type
var EventSeverityMap = map[EventType]Severity{
	// INFO - normal traffic
	EventValidationFailed:    SeverityINFO,
	EventDuplicateSubmission: SeverityINFO,

	// WARN - abuse signals, monitor
	EventRateLimitTriggered: SeverityWARN,
	EventUploadLimited:      SeverityWARN,
	EventUploadRejected:     SeverityWARN,

	// HIGH - resumes relayed without a scan, or dropped
	EventScannerUnavailable: SeverityHIGH,

	// CRITICAL
	EventMalwareDetected: SeverityCRITICAL,
}

// GetSeverity returns the severity for an event type
// If the event type is not mapped, defaults to MEDIUM
func GetSeverity(eventType EventType) Severity {
	if severity, ok := EventSeverityMap[eventType]; ok {
		return severity
	}
	return SeverityMEDIUM
}

// IsHighOrAbove returns true if the event is HIGH or CRITICAL severity
func IsHighOrAbove(eventType EventType) bool {
	severity := GetSeverity(eventType)
	return severity == SeverityHIGH || severity == SeverityCRITICAL
}

// zapLevel maps a severity onto the log level the event is written at
func (s Severity) zapLevel() zapcore.Level {
	switch s {
	case SeverityINFO:
		return zapcore.InfoLevel
	case SeverityHIGH, SeverityCRITICAL:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}
