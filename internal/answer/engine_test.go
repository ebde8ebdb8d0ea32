package answer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfqa/internal/domain"
)

type fakeModel struct {
	mu         sync.Mutex
	contexts   []string
	answer     string
	err        error
	safe       bool
	active     atomic.Int32
	maxSeen    atomic.Int32
	delay      time.Duration
	closed     bool
	closedBusy bool // Close ran while an Infer call was active
}

func (m *fakeModel) Infer(_ context.Context, question, text string) (domain.Answer, error) {
	n := m.active.Add(1)
	defer m.active.Add(-1)
	for {
		cur := m.maxSeen.Load()
		if n <= cur || m.maxSeen.CompareAndSwap(cur, n) {
			break
		}
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	m.contexts = append(m.contexts, text)
	m.mu.Unlock()
	if m.err != nil {
		return domain.Answer{}, m.err
	}
	return domain.Answer{Text: m.answer, Score: 0.9}, nil
}

func (m *fakeModel) ConcurrentSafe() bool { return m.safe }

func (m *fakeModel) Close() error {
	m.closedBusy = m.active.Load() > 0
	m.closed = true
	return nil
}

func loaderFor(m *fakeModel, loads *atomic.Int32) Loader {
	return func(context.Context) (domain.QAModel, error) {
		if loads != nil {
			loads.Add(1)
		}
		return m, nil
	}
}

func TestWindow(t *testing.T) {
	assert.Equal(t, "short", Window("short"))

	long := strings.Repeat("a", ContextWindow+500)
	assert.Len(t, Window(long), ContextWindow)

	multi := strings.Repeat("é", ContextWindow+10)
	w := Window(multi)
	assert.Equal(t, ContextWindow, utf8.RuneCountInString(w))
	assert.True(t, utf8.ValidString(w))
}

func TestInferTruncatesContext(t *testing.T) {
	m := &fakeModel{answer: "  Paris \n", safe: true}
	e := NewEngine(loaderFor(m, nil), zerolog.Nop())

	doc := strings.Repeat("word ", 2000)
	a, err := e.Infer(context.Background(), "q?", doc)
	require.NoError(t, err)
	assert.Equal(t, "Paris", a.Text)
	require.Len(t, m.contexts, 1)
	assert.LessOrEqual(t, utf8.RuneCountInString(m.contexts[0]), ContextWindow)
	assert.Equal(t, doc[:ContextWindow], m.contexts[0])
}

func TestInferEmptyTextSkipsModel(t *testing.T) {
	var loads atomic.Int32
	m := &fakeModel{answer: "x"}
	e := NewEngine(loaderFor(m, &loads), zerolog.Nop())

	for _, doc := range []string{"", "   \n\t "} {
		a, err := e.Infer(context.Background(), "q?", doc)
		require.NoError(t, err)
		assert.Equal(t, NoReadableText, a.Text)
	}
	assert.Equal(t, NoReadableText, e.Answer(context.Background(), "q?", ""))
	assert.Zero(t, loads.Load())
	assert.Empty(t, m.contexts)
}

func TestInitLoadsOnceUnderConcurrency(t *testing.T) {
	var loads atomic.Int32
	m := &fakeModel{answer: "ok", safe: true}
	e := NewEngine(func(ctx context.Context) (domain.QAModel, error) {
		loads.Add(1)
		time.Sleep(20 * time.Millisecond)
		return m, nil
	}, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "ok", e.Answer(context.Background(), "q?", "Some text."))
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), loads.Load())
}

func TestLoadFailureIsRemembered(t *testing.T) {
	var loads atomic.Int32
	e := NewEngine(func(context.Context) (domain.QAModel, error) {
		loads.Add(1)
		return nil, errors.New("weights missing")
	}, zerolog.Nop())

	_, err := e.Infer(context.Background(), "q?", "text")
	require.Error(t, err)
	assert.True(t, domain.IsModelInference(err))

	assert.Equal(t, "Error during QA: weights missing", e.Answer(context.Background(), "q?", "text"))
	assert.Equal(t, int32(1), loads.Load())
}

func TestInferErrorBecomesMessage(t *testing.T) {
	m := &fakeModel{err: errors.New("tensor shape mismatch"), safe: true}
	e := NewEngine(loaderFor(m, nil), zerolog.Nop())

	assert.Equal(t, "Error during QA: tensor shape mismatch", e.Answer(context.Background(), "q?", "text"))
}

func TestUnsafeModelIsSerialized(t *testing.T) {
	m := &fakeModel{answer: "ok", delay: 5 * time.Millisecond}
	e := NewEngine(loaderFor(m, nil), zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Infer(context.Background(), "q?", "text")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), m.maxSeen.Load())
}

func TestInitIgnoresCallerCancellation(t *testing.T) {
	var sawCancel atomic.Bool
	e := NewEngine(func(ctx context.Context) (domain.QAModel, error) {
		sawCancel.Store(ctx.Err() != nil)
		return &fakeModel{answer: "ok", safe: true}, nil
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, e.Init(ctx))
	assert.False(t, sawCancel.Load())
}

func TestClose(t *testing.T) {
	m := &fakeModel{answer: "ok", safe: true}
	e := NewEngine(loaderFor(m, nil), zerolog.Nop())
	require.NoError(t, e.Init(context.Background()))

	require.NoError(t, e.Close())
	assert.True(t, m.closed)

	_, err := e.Infer(context.Background(), "q?", "text")
	assert.True(t, domain.IsModelInference(err))
}

func TestCloseBeforeInit(t *testing.T) {
	var loads atomic.Int32
	e := NewEngine(loaderFor(&fakeModel{}, &loads), zerolog.Nop())

	require.NoError(t, e.Close())
	assert.ErrorIs(t, e.Init(context.Background()), errClosed)
	assert.Zero(t, loads.Load())
}

func TestCloseWaitsForInflightInfer(t *testing.T) {
	m := &fakeModel{answer: "ok", safe: true, delay: 50 * time.Millisecond}
	e := NewEngine(loaderFor(m, nil), zerolog.Nop())
	require.NoError(t, e.Init(context.Background()))

	done := make(chan error, 1)
	go func() {
		_, err := e.Infer(context.Background(), "q?", "text")
		done <- err
	}()
	require.Eventually(t, func() bool { return m.active.Load() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, e.Close())
	assert.True(t, m.closed)
	assert.False(t, m.closedBusy)
	assert.NoError(t, <-done)
}
