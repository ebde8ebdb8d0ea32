// Package translate adapts a translation service to the English pivot used
// by the question-answering pipeline.
package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"pdfqa/internal/domain"
)

// English is the pivot language code.
const English = "en"

// IsEnglish reports whether lang names English.
func IsEnglish(lang string) bool {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "en", "eng", "english":
		return true
	}
	return false
}

// Passthrough reports whether text in lang must not be sent to the service:
// English needs no translation and an unknown language cannot be translated.
func Passthrough(lang string) bool {
	l := strings.ToLower(strings.TrimSpace(lang))
	return IsEnglish(l) || l == "" || l == domain.UnknownLanguage
}

// Adapter implements domain.Translator over a domain.TranslationService.
type Adapter struct {
	service domain.TranslationService
	log     zerolog.Logger
}

func NewAdapter(service domain.TranslationService, log zerolog.Logger) *Adapter {
	return &Adapter{service: service, log: log.With().Str("component", "translator").Logger()}
}

// ToEnglish translates text from sourceLang to English.
func (a *Adapter) ToEnglish(ctx context.Context, text, sourceLang string) (string, error) {
	if Passthrough(sourceLang) {
		return text, nil
	}
	return a.translate(ctx, text, sourceLang, English)
}

// FromEnglish translates English text to targetLang.
func (a *Adapter) FromEnglish(ctx context.Context, text, targetLang string) (string, error) {
	if Passthrough(targetLang) {
		return text, nil
	}
	return a.translate(ctx, text, English, targetLang)
}

func (a *Adapter) translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	out, err := a.service.Translate(ctx, text, source, target)
	if err != nil {
		a.log.Warn().Err(err).Str("source", source).Str("target", target).Msg("translation failed")
		return "", domain.TranslationFailed(fmt.Sprintf("translate %s->%s", source, target), err)
	}
	return out, nil
}

// Identity is an offline TranslationService that returns text unchanged.
type Identity struct{}

func (Identity) Translate(_ context.Context, text, _, _ string) (string, error) {
	return text, nil
}
