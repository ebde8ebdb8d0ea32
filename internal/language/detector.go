// Package language guesses the language of short user questions.
package language

import (
	"strings"
	"unicode"

	"github.com/abadojack/whatlanggo"

	"pdfqa/internal/domain"
)

// Detector wraps whatlanggo. Detect never fails: anything it cannot settle
// on is reported as domain.UnknownLanguage.
type Detector struct {
	minConfidence float64
	detect        func(string) whatlanggo.Info
}

// NewDetector creates a detector that rejects guesses below minConfidence.
func NewDetector(minConfidence float64) *Detector {
	return &Detector{minConfidence: minConfidence, detect: whatlanggo.Detect}
}

// Detect returns an ISO 639-1 code where one exists (ISO 639-3 otherwise),
// or domain.UnknownLanguage.
func (d *Detector) Detect(text string) (code string) {
	defer func() {
		if rec := recover(); rec != nil {
			code = domain.UnknownLanguage
		}
	}()
	if !hasLetters(text) {
		return domain.UnknownLanguage
	}
	info := d.detect(text)
	if info.Lang < 0 || info.Confidence < d.minConfidence {
		return domain.UnknownLanguage
	}
	code = info.Lang.Iso6391()
	if code == "" {
		code = info.Lang.Iso6393()
	}
	if code == "" {
		return domain.UnknownLanguage
	}
	return strings.ToLower(code)
}

func hasLetters(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
