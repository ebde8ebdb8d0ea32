// Package vertex translates with a Gemini model on Vertex AI.
package vertex

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
)

const systemPrompt = "You are a professional translator. Translate the user's text faithfully. " +
	"Preserve numbers, names and formatting. Reply with the translation only, without quotes, notes or explanations."

// refusalPhrases mark model output that is not a translation.
var refusalPhrases = []string{
	"i am unable to",
	"i cannot fulfill",
	"i cannot translate",
	"as a large language model",
}

type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Config configures the Vertex AI client.
type Config struct {
	ProjectID       string
	Region          string
	Model           string
	CredentialsFile string
}

// Translator implements domain.TranslationService with Gemini.
type Translator struct {
	model  generator
	client *genai.Client
}

// NewTranslator creates the genai client and configures the model.
func NewTranslator(ctx context.Context, cfg Config) (*Translator, error) {
	if cfg.ProjectID == "" || cfg.Region == "" {
		return nil, fmt.Errorf("vertex translator: project id and region cannot be empty")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Region, opts...)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}
	model := client.GenerativeModel(cfg.Model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
	model.SetTemperature(0)
	return &Translator{model: model, client: client}, nil
}

// Translate translates text from source to target language code.
func (t *Translator) Translate(ctx context.Context, text, source, target string) (string, error) {
	prompt := fmt.Sprintf("Translate the following text from language code %q to language code %q.\n\n%s", source, target, text)
	resp, err := t.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content from gemini: %w", err)
	}
	out := extractText(resp)
	if out == "" {
		return "", errors.New("gemini returned no translation")
	}
	lower := strings.ToLower(out)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return "", fmt.Errorf("gemini response indicates refusal: %q", out)
		}
	}
	return out, nil
}

// Close releases the underlying client.
func (t *Translator) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(b.String())
}
