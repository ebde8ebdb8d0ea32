package domain

import "context"

// UnknownLanguage is reported when the detector cannot settle on a language.
const UnknownLanguage = "unknown"

// Document is one uploaded PDF after text extraction. It is never mutated
// after the store hands it out.
type Document struct {
	ID      string
	Name    string
	Text    string
	Preview string
	Words   int
}

// UploadResult is returned to callers after a successful upload.
type UploadResult struct {
	ID      string
	Name    string
	Preview string
}

// AskTrace is the full record of one question-answering pass.
type AskTrace struct {
	DocumentID       string
	DocumentName     string
	Preview          string
	DetectedLang     string
	QuestionOriginal string
	QuestionEnglish  string
	AnswerEnglish    string
	AnswerTranslated string
	Warnings         []string
}

// Answer is a span extracted from the context by a model.
type Answer struct {
	Text  string
	Score float64
}

// TextExtractor turns raw PDF bytes into page texts, in page order.
type TextExtractor interface {
	Extract(ctx context.Context, raw []byte) ([]string, error)
}

// LanguageDetector returns a language code or UnknownLanguage. It never fails.
type LanguageDetector interface {
	Detect(text string) string
}

// TranslationService translates text between two language codes.
type TranslationService interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Translator is the English-pivot view of a TranslationService.
type Translator interface {
	ToEnglish(ctx context.Context, text, sourceLang string) (string, error)
	FromEnglish(ctx context.Context, text, targetLang string) (string, error)
}

// QAModel extracts an answer span for a question from a context.
type QAModel interface {
	Infer(ctx context.Context, question, context string) (Answer, error)
}

// AnswerEngine answers an English question against document text.
// It always returns something displayable.
type AnswerEngine interface {
	Answer(ctx context.Context, question, documentText string) string
}
