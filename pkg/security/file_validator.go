package security

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxResumeSize is the largest accepted resume (5 MiB)
const MaxResumeSize int64 = 5 * 1024 * 1024

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool   // Whether the file passed all validation checks
	Extension    string // Detected file extension
	DetectedMIME string // Detected MIME type
	Error        string // Error message if validation failed
	TooLarge     bool   // Rejected only because of its size
}

// Magic byte signatures for allowed resume types
var magicBytes = map[string][][]byte{
	".pdf":  {{0x25, 0x50, 0x44, 0x46}},                         // %PDF
	".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}}, // OLE Compound Document
	".docx": {{0x50, 0x4B, 0x03, 0x04}},                         // ZIP (PK..)
}

// Allowed resume extensions (strict whitelist)
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// Declared MIME types a browser may send for an allowed resume
var resumeMIMETypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// Detected MIME types accepted per extension. DOCX is a ZIP container and
// DOC an OLE container, so the generic container types are allowed once the
// magic bytes matched.
var detectedMIMETypes = map[string]map[string]bool{
	".pdf": {"application/pdf": true},
	".doc": {
		"application/msword":       true,
		"application/x-ole-storage": true,
		"application/octet-stream": true,
	},
	".docx": {
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
		"application/zip":          true,
		"application/octet-stream": true,
	},
}

// ValidateResume performs the resume checks:
// 1. Size limit
// 2. Extension whitelist
// 3. Declared MIME whitelist (when the client sent one)
// 4. Magic byte verification (content matches extension)
// 5. Detected MIME matches the extension
func ValidateResume(filename string, data []byte, declaredMIME string) FileValidationResult {
	result := FileValidationResult{}

	if int64(len(data)) > MaxResumeSize {
		result.TooLarge = true
		result.Error = fmt.Sprintf("file exceeds the %d MB limit", MaxResumeSize/(1024*1024))
		return result
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext

	if !allowedExtensions[ext] {
		result.Error = "only PDF, DOC or DOCX files are allowed"
		return result
	}

	declared := normalizeMIME(declaredMIME)
	if declared != "" && declared != "application/octet-stream" && !resumeMIMETypes[declared] {
		result.Error = "only PDF, DOC or DOCX files are allowed"
		return result
	}

	if !validateMagicBytes(ext, data) {
		result.Error = "file content does not match extension"
		return result
	}

	detected := mimetype.Detect(data)
	result.DetectedMIME = detected.String()
	if !detectedAllowed(ext, detected) {
		result.Error = "file type could not be verified as PDF, DOC or DOCX"
		return result
	}

	result.Valid = true
	return result
}

func detectedAllowed(ext string, detected *mimetype.MIME) bool {
	allowed := detectedMIMETypes[ext]
	for m := detected; m != nil; m = m.Parent() {
		if allowed[normalizeMIME(m.String())] {
			return true
		}
	}
	return false
}

func normalizeMIME(m string) string {
	m, _, _ = strings.Cut(m, ";")
	return strings.ToLower(strings.TrimSpace(m))
}

// validateMagicBytes checks if file content starts with expected magic bytes
func validateMagicBytes(ext string, data []byte) bool {
	if len(data) < 4 {
		return false // File too small to validate
	}

	signatures, ok := magicBytes[ext]
	if !ok {
		return false
	}

	for _, sig := range signatures {
		if len(data) >= len(sig) && bytes.HasPrefix(data, sig) {
			return true
		}
	}

	return false
}
