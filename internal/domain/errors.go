package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced by the core.
type ErrorKind string

const (
	KindInvalidInput   ErrorKind = "invalid_input"
	KindExtraction     ErrorKind = "extraction"
	KindNotFound       ErrorKind = "not_found"
	KindTranslation    ErrorKind = "translation"
	KindModelInference ErrorKind = "model_inference"
)

// Error is a classified failure with optional cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a classified error.
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func InvalidInput(message string, err error) *Error {
	return NewError(KindInvalidInput, message, err)
}

func ExtractionFailed(message string, err error) *Error {
	return NewError(KindExtraction, message, err)
}

func NotFound(message string) *Error {
	return NewError(KindNotFound, message, nil)
}

func TranslationFailed(message string, err error) *Error {
	return NewError(KindTranslation, message, err)
}

func ModelInference(message string, err error) *Error {
	return NewError(KindModelInference, message, err)
}

// KindOf reports the kind of the first classified error in err's chain,
// or "" when there is none.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

func IsInvalidInput(err error) bool   { return KindOf(err) == KindInvalidInput }
func IsExtraction(err error) bool     { return KindOf(err) == KindExtraction }
func IsNotFound(err error) bool       { return KindOf(err) == KindNotFound }
func IsTranslation(err error) bool    { return KindOf(err) == KindTranslation }
func IsModelInference(err error) bool { return KindOf(err) == KindModelInference }
