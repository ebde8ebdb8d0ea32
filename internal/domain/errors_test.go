package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name string
		err  error
		kind ErrorKind
		is   func(error) bool
	}{
		{"invalid input", InvalidInput("bad pdf", cause), KindInvalidInput, IsInvalidInput},
		{"extraction", ExtractionFailed("unreadable", cause), KindExtraction, IsExtraction},
		{"not found", NotFound("no such document"), KindNotFound, IsNotFound},
		{"translation", TranslationFailed("translate", cause), KindTranslation, IsTranslation},
		{"model", ModelInference("infer", cause), KindModelInference, IsModelInference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.Equal(t, tt.kind, KindOf(wrapped))
			assert.True(t, tt.is(wrapped))
		})
	}
}

func TestErrorMessageAndUnwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := TranslationFailed("translate hi->en", cause)

	assert.Equal(t, "[translation] translate hi->en: timeout", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "[not_found] document x", NotFound("document x").Error())
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
}
