package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pdfqa/internal/docstore"
	"pdfqa/internal/domain"
)

// Options tunes orchestration policy.
type Options struct {
	// FallbackToEnglish keeps an ask alive when translation fails: the
	// question is answered as written and the answer is returned in English,
	// each with a warning.
	FallbackToEnglish bool
}

// QAService composes extraction, storage, detection, translation and
// answering into the upload and ask operations.
type QAService struct {
	extractor  domain.TextExtractor
	store      docstore.Storage
	detector   domain.LanguageDetector
	translator domain.Translator
	engine     domain.AnswerEngine
	opts       Options
	log        zerolog.Logger
}

func NewQAService(extractor domain.TextExtractor, store docstore.Storage, detector domain.LanguageDetector, translator domain.Translator, engine domain.AnswerEngine, opts Options, log zerolog.Logger) *QAService {
	return &QAService{
		extractor:  extractor,
		store:      store,
		detector:   detector,
		translator: translator,
		engine:     engine,
		opts:       opts,
		log:        log.With().Str("component", "qa").Logger(),
	}
}

// Upload extracts the text of a PDF and stores it. Nothing is stored when
// any step fails.
func (s *QAService) Upload(ctx context.Context, filename string, raw []byte) (domain.UploadResult, error) {
	name := filepath.Base(strings.TrimSpace(filename))
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return domain.UploadResult{}, domain.InvalidInput("file must be a PDF", nil)
	}
	if len(raw) == 0 {
		return domain.UploadResult{}, domain.InvalidInput("empty upload", nil)
	}
	pages, err := s.extractor.Extract(ctx, raw)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return domain.UploadResult{}, err
		}
		if domain.KindOf(err) == "" {
			err = domain.ExtractionFailed("extract text from "+name, err)
		}
		s.log.Warn().Err(err).Str("name", name).Msg("upload rejected")
		return domain.UploadResult{}, err
	}
	doc, err := s.store.Put(name, strings.Join(pages, "\n"))
	if err != nil {
		return domain.UploadResult{}, fmt.Errorf("store document: %w", err)
	}
	s.log.Info().
		Str("doc_id", doc.ID).
		Str("name", doc.Name).
		Int("pages", len(pages)).
		Int("words", doc.Words).
		Msg("document stored")
	return domain.UploadResult{ID: doc.ID, Name: doc.Name, Preview: doc.Preview}, nil
}

// Ask answers question against the stored document id. The question may be
// in any language; the answer is returned both in English and translated
// back to the detected language.
func (s *QAService) Ask(ctx context.Context, id, question string) (domain.AskTrace, error) {
	start := time.Now()
	doc, err := s.store.Get(id)
	if err != nil {
		return domain.AskTrace{}, err
	}
	trace := domain.AskTrace{
		DocumentID:       doc.ID,
		DocumentName:     doc.Name,
		Preview:          doc.Preview,
		QuestionOriginal: question,
	}

	trace.DetectedLang = s.detector.Detect(question)

	trace.QuestionEnglish, err = s.translator.ToEnglish(ctx, question, trace.DetectedLang)
	if err != nil {
		if !s.opts.FallbackToEnglish {
			return domain.AskTrace{}, err
		}
		trace.QuestionEnglish = question
		trace.Warnings = append(trace.Warnings, fmt.Sprintf("question not translated from %q: %v", trace.DetectedLang, err))
	}

	trace.AnswerEnglish = s.engine.Answer(ctx, trace.QuestionEnglish, doc.Text)

	trace.AnswerTranslated, err = s.translator.FromEnglish(ctx, trace.AnswerEnglish, trace.DetectedLang)
	if err != nil {
		if !s.opts.FallbackToEnglish {
			return domain.AskTrace{}, err
		}
		trace.AnswerTranslated = trace.AnswerEnglish
		trace.Warnings = append(trace.Warnings, fmt.Sprintf("answer not translated to %q: %v", trace.DetectedLang, err))
	}

	s.log.Info().
		Str("doc_id", doc.ID).
		Str("lang", trace.DetectedLang).
		Int("warnings", len(trace.Warnings)).
		Dur("took", time.Since(start)).
		Msg("question answered")
	return trace, nil
}

// Document returns the stored document with the given id.
func (s *QAService) Document(id string) (domain.Document, error) {
	return s.store.Get(id)
}
