package document

import (
	"bytes"
	"path/filepath"
	"strings"
)

// DefaultMaxSize bounds a single upload.
const DefaultMaxSize = 50 * 1024 * 1024

var pdfMagic = []byte("%PDF-")

// Validator checks uploads before they reach storage.
type Validator struct {
	maxSize int
}

// NewValidator creates a validator. A non-positive maxSize uses DefaultMaxSize.
func NewValidator(maxSize int) *Validator {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Validator{maxSize: maxSize}
}

// Validate checks the name, extension, size and PDF signature.
func (v *Validator) Validate(name string, data []byte) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Name: name, Reason: "name cannot be empty"}
	}
	if !IsKnown(name) {
		return &ValidationError{Name: name, Reason: "not one of the expected documents"}
	}
	if ext := strings.ToLower(filepath.Ext(name)); ext != ".pdf" {
		return &ValidationError{Name: name, Reason: "file is not a PDF (has extension " + ext + ")"}
	}
	if len(data) == 0 {
		return &ValidationError{Name: name, Reason: "file is empty"}
	}
	if len(data) > v.maxSize {
		return &ValidationError{Name: name, Reason: "file exceeds the upload size limit"}
	}
	if !bytes.HasPrefix(bytes.TrimLeft(data[:min(len(data), 1024)], "\x00\t\r\n "), pdfMagic) {
		return &ValidationError{Name: name, Reason: "missing PDF signature"}
	}
	return nil
}
