package antivirus

import (
	"context"
)

// ScanResult contains the result of a malware scan
type ScanResult struct {
	Infected    bool   // True if malware was detected
	ThreatName  string // Name of detected threat (empty if clean)
	ScannerName string // Name of scanner that produced this result
	Error       error  // Any error that occurred during scanning
}

// Scanner checks uploaded resumes before they are relayed.
// An error result must be treated as infected (fail closed).
type Scanner interface {
	Scan(ctx context.Context, filename string, data []byte) ScanResult

	// Name returns the scanner implementation name (for logging)
	Name() string

	// Available checks if the scanner is operational
	Available(ctx context.Context) bool
}

// NoOpScanner always reports clean. Used when no clamd is configured.
type NoOpScanner struct{}

var _ Scanner = (*NoOpScanner)(nil)

func (n *NoOpScanner) Scan(ctx context.Context, filename string, data []byte) ScanResult {
	return ScanResult{ScannerName: n.Name()}
}

func (n *NoOpScanner) Name() string {
	return "noop"
}

func (n *NoOpScanner) Available(ctx context.Context) bool {
	return true
}

func NewNoOpScanner() *NoOpScanner {
	return &NoOpScanner{}
}
