package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/drivelane/lingo"
)

// OpenAIProvider implements Provider using OpenAI's API. It must only ever
// run server-side, behind the proxy API; the credential never reaches a client.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string  // OpenAI API key
	Model       string  // Model to use (default: "gpt-4o-mini")
	Temperature float32 // Temperature for generation (default: 0.3)
	BaseURL     string  // Custom base URL (optional)
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}
}

// Translate translates a batch of texts using OpenAI.
func (p *OpenAIProvider) Translate(ctx context.Context, req Request) ([]Translation, error) {
	if len(req.Texts) == 0 {
		return []Translation{}, nil
	}

	systemPrompt := p.buildSystemPrompt(req)
	userMessage, _ := json.Marshal(req.Texts)

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: string(userMessage)},
		},
		Temperature: p.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, &lingo.ProviderError{
			Message:   "OpenAI API call failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	if len(resp.Choices) == 0 {
		return nil, &lingo.ProviderError{
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	return parseTranslateResponse(resp.Choices[0].Message.Content, len(req.Texts))
}

// Detect identifies the language of text using OpenAI.
func (p *OpenAIProvider) Detect(ctx context.Context, text string) (string, error) {
	prompt := `Identify the language the user's text is written in. ` +
		`Return a valid JSON object of the form {"language": "<ISO 639-1 code>"}, ` +
		`for example {"language": "sv"}. Return nothing else.`

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", &lingo.ProviderError{
			Message:   "OpenAI API call failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	if len(resp.Choices) == 0 {
		return "", &lingo.ProviderError{
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	var out struct {
		Language string `json:"language"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &out); err != nil || out.Language == "" {
		return "", &lingo.ProviderError{
			Message:   "invalid detection response from OpenAI",
			Retryable: false,
		}
	}

	return strings.ToLower(strings.TrimSpace(out.Language)), nil
}

func (p *OpenAIProvider) buildSystemPrompt(req Request) string {
	targetName := lingo.GetLanguageName(req.TargetLang)

	sourceClause := "Detect the source language yourself."
	if req.SourceLang != "" && req.SourceLang != lingo.SourceAuto {
		sourceClause = fmt.Sprintf("The source language is %s.", lingo.GetLanguageName(req.SourceLang))
	}

	contextText := "The content is general website copy."
	if req.Context != "" {
		contextText = fmt.Sprintf("The content is for: %s. Adapt the tone to be appropriate for this context.", req.Context)
	}

	prompt := fmt.Sprintf(`# Role
You are an expert native translator. You translate content to %s with the fluency and nuance of a highly educated native speaker.

# Context
%s
%s

# Task
Translate the provided texts into idiomatic %s.

# Style Guide
- **Natural Flow**: Avoid literal translations. Rephrase sentences to sound completely natural to a native speaker.
- **Idioms**: Never translate idioms literally. Replace them with natural %s equivalents.
- **HTML/Code Safety**: Do NOT translate HTML tags, class names, IDs, attributes, URLs, or email addresses.
- **Interpolation**: Do NOT translate variables or placeholders (e.g., {{name}}, {count}, %%s).
- **Formatting**: Preserve meaningful whitespace and use idiomatic punctuation for the target language.`,
		targetName, contextText, sourceClause, targetName, targetName)

	if len(req.Glossary) > 0 {
		prompt += "\n\n# Glossary\nWhen you encounter these phrases, prefer these translations (unless context demands otherwise):"
		for source, target := range req.Glossary {
			prompt += fmt.Sprintf("\n- %q → %s", source, target)
		}
	}

	if len(req.ExcludedTerms) > 0 {
		terms := strings.Join(req.ExcludedTerms, "\n- ")
		prompt += fmt.Sprintf("\n\n# Exclusions\nDo NOT translate the following terms. Keep them exactly as they appear in the source:\n- %s", terms)
	}

	prompt += `

# Format
Return a valid JSON object with a key "translations" containing an array of strings in the exact same order as the input,
and a key "sourceLanguage" with the ISO 639-1 code of the source language.
Example: { "translations": ["translated string 1", "translated string 2"], "sourceLanguage": "en" }
Do NOT wrap the output in Markdown code blocks.`

	return prompt
}

func parseTranslateResponse(content string, expectedCount int) ([]Translation, error) {
	var out struct {
		Translations   []string `json:"translations"`
		SourceLanguage string   `json:"sourceLanguage"`
	}

	if err := json.Unmarshal([]byte(content), &out); err != nil || out.Translations == nil {
		// Some models return a bare array despite instructions.
		var arr []string
		if err := json.Unmarshal([]byte(content), &arr); err != nil {
			return nil, &lingo.ProviderError{
				Message:   "invalid response format from OpenAI",
				Retryable: false,
			}
		}
		out.Translations = arr
	}

	if len(out.Translations) != expectedCount {
		return nil, &lingo.CountMismatchError{
			Expected: expectedCount,
			Got:      len(out.Translations),
		}
	}

	detected := strings.ToLower(strings.TrimSpace(out.SourceLanguage))

	results := make([]Translation, len(out.Translations))
	for i, text := range out.Translations {
		results[i] = Translation{Text: text, DetectedSource: detected}
	}

	return results, nil
}

func isRetryableError(err error) bool {
	// Check for common retryable conditions
	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"rate limit",
		"timeout",
		"connection refused",
		"temporary",
		"503",
		"502",
		"429",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// Verify OpenAIProvider implements Provider
var _ Provider = (*OpenAIProvider)(nil)
