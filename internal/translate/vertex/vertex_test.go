package vertex

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/vertexai/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	resp   *genai.GenerateContentResponse
	err    error
	prompt string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	if len(parts) > 0 {
		if txt, ok := parts[0].(genai.Text); ok {
			f.prompt = string(txt)
		}
	}
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, genai.Text(p))
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestTranslate(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("  What is the capital ", "of France?\n")}
	tr := &Translator{model: gen}

	out, err := tr.Translate(context.Background(), "फ्रांस की राजधानी क्या है?", "hi", "en")
	require.NoError(t, err)
	assert.Equal(t, "What is the capital of France?", out)
	assert.Contains(t, gen.prompt, `"hi"`)
	assert.Contains(t, gen.prompt, `"en"`)
	assert.Contains(t, gen.prompt, "फ्रांस की राजधानी क्या है?")
}

func TestTranslateFailures(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"api error", &fakeGenerator{err: errors.New("quota exceeded")}},
		{"nil response", &fakeGenerator{}},
		{"no candidates", &fakeGenerator{resp: &genai.GenerateContentResponse{}}},
		{"empty text", &fakeGenerator{resp: textResponse("   ")}},
		{"refusal", &fakeGenerator{resp: textResponse("I am unable to help with that.")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&Translator{model: tt.gen}).Translate(context.Background(), "Paris", "en", "hi")
			assert.Error(t, err)
		})
	}
}

func TestNewTranslatorRequiresProject(t *testing.T) {
	_, err := NewTranslator(context.Background(), Config{Region: "us-central1"})
	assert.Error(t, err)
}

func TestCloseWithoutClient(t *testing.T) {
	assert.NoError(t, (&Translator{}).Close())
}
