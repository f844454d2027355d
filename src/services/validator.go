package services

import (
	"bytes"
	"encoding/xml"
	"io"
)

// wellFormedValidator checks that a payload is well-formed XML. It stands in
// for full openCost XSD validation, which is performed externally; this
// implementation is enough to catch truncated or mangled records.
type wellFormedValidator struct{}

// NewWellFormedValidator returns the default schema validator.
func NewWellFormedValidator() SchemaValidator {
	return &wellFormedValidator{}
}

func (v *wellFormedValidator) Validate(content []byte) ValidationResult {
	decoder := xml.NewDecoder(bytes.NewReader(content))
	for {
		_, err := decoder.Token()
		if err == io.EOF {
			return ValidationResult{OK: true}
		}
		if err != nil {
			return ValidationResult{OK: false, Diagnostic: err.Error()}
		}
	}
}
