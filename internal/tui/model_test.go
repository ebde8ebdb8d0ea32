package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfqa/internal/domain"
)

type fakeAsker struct {
	questions []string
	err       error
}

func (f *fakeAsker) Ask(_ context.Context, id, question string) (domain.AskTrace, error) {
	f.questions = append(f.questions, question)
	if f.err != nil {
		return domain.AskTrace{}, f.err
	}
	return domain.AskTrace{
		DocumentID:       id,
		DetectedLang:     "en",
		QuestionOriginal: question,
		QuestionEnglish:  question,
		AnswerEnglish:    "answer to " + question,
		AnswerTranslated: "answer to " + question,
		Preview:          "The capital of France is Paris.",
	}, nil
}

func newModel(f *fakeAsker) Model {
	m := New(context.Background(), f, domain.UploadResult{ID: "doc-1", Name: "france.pdf", Preview: "The capital of France is Paris."})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return next.(Model)
}

// submit types q, presses enter and feeds the resulting message back.
func submit(t *testing.T, m Model, q string) Model {
	t.Helper()
	m.input.SetValue(q)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m = next.(Model)
	assert.True(t, m.pending)
	next, _ = m.Update(cmd())
	return next.(Model)
}

func TestAskAppendsHistory(t *testing.T) {
	f := &fakeAsker{}
	m := newModel(f)

	m = submit(t, m, "first?")
	m = submit(t, m, "second?")

	assert.Equal(t, []string{"first?", "second?"}, f.questions)
	require.Len(t, m.history, 2)
	assert.Equal(t, 1, m.cursor)
	assert.False(t, m.pending)
	assert.Equal(t, "answer to second?", m.history[m.cursor].AnswerEnglish)
	assert.Contains(t, m.renderCurrent(), "second?")
}

func TestHistoryNavigationWraps(t *testing.T) {
	m := newModel(&fakeAsker{})
	m = submit(t, m, "a?")
	m = submit(t, m, "b?")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)
	assert.Equal(t, 0, m.cursor)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)
	assert.Equal(t, 1, m.cursor)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	assert.Equal(t, 0, m.cursor)
}

func TestAskErrorShowsStatus(t *testing.T) {
	m := newModel(&fakeAsker{err: errors.New("translation unavailable")})
	m = submit(t, m, "q?")

	assert.Empty(t, m.history)
	assert.Contains(t, m.status, "translation unavailable")
}

func TestBlankQuestionIgnored(t *testing.T) {
	f := &fakeAsker{}
	m := newModel(f)
	m.input.SetValue("   ")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.False(t, m.pending)
	assert.Empty(t, f.questions)
}

func TestHighlightBestSentence(t *testing.T) {
	text := "Berlin is in Germany. The capital of France is Paris."
	out := highlightBestSentence(text, "Paris")
	assert.Contains(t, out, "Berlin is in Germany.")
	assert.Contains(t, out, "Paris")
	assert.Equal(t, "", highlightBestSentence("", "q"))
	assert.Equal(t, text, highlightBestSentence(text, "zzz"))
}

func TestTruncateWords(t *testing.T) {
	assert.Equal(t, "a b", truncateWords(" a  b ", 5))
	assert.Equal(t, "a b ...", truncateWords("a b c", 2))
}

func TestHighlightKeepsUnterminatedTail(t *testing.T) {
	text := "The capital of France is Paris. It has a river called"

	out := highlightBestSentence(text, "capital")
	assert.Contains(t, out, "Paris.")
	assert.True(t, strings.HasSuffix(out, "It has a river called"), out)

	assert.Equal(t, "no terminator here", highlightBestSentence("  no terminator here ", "zzz"))
}
