// Package lexical is a local extractive question-answering model: it
// returns the context sentence that best matches the question.
package lexical

import (
	"context"
	"errors"

	"pdfqa/internal/domain"
)

const minScore = 1e-9

// Model ranks context sentences by TF-IDF cosine similarity with the
// question and falls back to stem overlap when the vectors share no terms.
type Model struct{}

func NewModel() *Model { return &Model{} }

// Load satisfies answer.Loader.
func Load(context.Context) (domain.QAModel, error) { return NewModel(), nil }

// ConcurrentSafe reports that Infer keeps no shared state.
func (m *Model) ConcurrentSafe() bool { return true }

func (m *Model) Infer(ctx context.Context, question, text string) (domain.Answer, error) {
	if err := ctx.Err(); err != nil {
		return domain.Answer{}, err
	}
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return domain.Answer{}, errors.New("context has no sentences")
	}
	if idx, err := buildIndex(sentences); err == nil {
		ranked := idx.rank(idx.embed(question))
		if best := ranked[0]; best.score > minScore {
			return domain.Answer{Text: sentences[best.idx], Score: best.score}, nil
		}
	}
	return overlapBest(question, sentences), nil
}

// overlapBest picks the sentence with the highest stem overlap, or the
// first sentence with score 0 when nothing overlaps.
func overlapBest(question string, sentences []string) domain.Answer {
	q := stemSet(question)
	bestIdx, bestScore := 0, 0.0
	for i, s := range sentences {
		if score := ochiai(q, s); score > bestScore {
			bestIdx, bestScore = i, score
		}
	}
	return domain.Answer{Text: sentences[bestIdx], Score: bestScore}
}
