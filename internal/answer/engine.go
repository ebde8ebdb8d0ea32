// Package answer runs extractive question answering over the leading
// window of a document.
package answer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"pdfqa/internal/domain"
)

// ContextWindow is the number of leading characters of a document handed to
// the model. Evidence past this point is never seen.
const ContextWindow = 3000

// NoReadableText is answered when the context window holds no text.
const NoReadableText = "no readable text found"

var errClosed = errors.New("answer engine is closed")

// Loader constructs the model. The engine calls it at most once.
type Loader func(ctx context.Context) (domain.QAModel, error)

// concurrentModel is implemented by models that allow parallel Infer calls.
type concurrentModel interface {
	ConcurrentSafe() bool
}

// Engine owns a lazily loaded model shared by all callers.
type Engine struct {
	load Loader
	log  zerolog.Logger

	once    sync.Once
	model   domain.QAModel
	initErr error
	serial  bool
	inferMu sync.Mutex
	// held shared by Infer and exclusively by Close
	lifeMu  sync.RWMutex
	closed  atomic.Bool
}

func NewEngine(load Loader, log zerolog.Logger) *Engine {
	return &Engine{load: load, log: log.With().Str("component", "answer").Logger()}
}

// Init loads the model if it has not been loaded yet. Concurrent callers
// block until the single load finishes. A failed load is not retried.
func (e *Engine) Init(ctx context.Context) error {
	e.once.Do(func() {
		start := time.Now()
		// the first caller's cancellation must not poison the shared model
		m, err := e.load(context.WithoutCancel(ctx))
		if err != nil {
			e.initErr = err
			e.log.Error().Err(err).Msg("model load failed")
			return
		}
		e.model = m
		cm, ok := m.(concurrentModel)
		e.serial = !ok || !cm.ConcurrentSafe()
		e.log.Info().Dur("took", time.Since(start)).Bool("serialized", e.serial).Msg("model loaded")
	})
	if e.closed.Load() {
		return errClosed
	}
	return e.initErr
}

// Close releases the model once in-flight Infer calls have returned.
// Later calls to Infer fail.
func (e *Engine) Close() error {
	e.closed.Store(true)
	e.lifeMu.Lock()
	defer e.lifeMu.Unlock()
	e.once.Do(func() { e.initErr = errClosed })
	if c, ok := e.model.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Infer answers question from the leading window of documentText. Empty
// windows short-circuit to NoReadableText without touching the model.
func (e *Engine) Infer(ctx context.Context, question, documentText string) (domain.Answer, error) {
	window := Window(documentText)
	if strings.TrimSpace(window) == "" {
		return domain.Answer{Text: NoReadableText}, nil
	}
	e.lifeMu.RLock()
	defer e.lifeMu.RUnlock()
	if err := e.Init(ctx); err != nil {
		return domain.Answer{}, domain.ModelInference("load model", err)
	}
	if e.serial {
		e.inferMu.Lock()
		defer e.inferMu.Unlock()
	}
	a, err := e.model.Infer(ctx, question, window)
	if err != nil {
		return domain.Answer{}, domain.ModelInference("infer", err)
	}
	a.Text = strings.TrimSpace(a.Text)
	return a, nil
}

// Answer is Infer collapsed to display text: model failures become an
// error message instead of an error.
func (e *Engine) Answer(ctx context.Context, question, documentText string) string {
	a, err := e.Infer(ctx, question, documentText)
	if err != nil {
		e.log.Warn().Err(err).Msg("question answering failed")
		return fmt.Sprintf("Error during QA: %v", causeOf(err))
	}
	return a.Text
}

// Window returns the first ContextWindow characters of text.
func Window(text string) string {
	n := 0
	for i := range text {
		if n == ContextWindow {
			return text[:i]
		}
		n++
	}
	return text
}

func causeOf(err error) error {
	var de *domain.Error
	if errors.As(err, &de) && de.Err != nil {
		return de.Err
	}
	return err
}
