package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pricofy/chunked-translator/internal/router"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = openai.GPT4oMini

// chatCompleter is the subset of the OpenAI API the client uses.
// *openai.Client implements it.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

var _ chatCompleter = (*openai.Client)(nil)

// OpenAIClient translates with a chat completion model.
type OpenAIClient struct {
	client chatCompleter
	model  string
}

// NewOpenAIClient creates a client using model, or DefaultOpenAIModel when empty.
func NewOpenAIClient(client chatCompleter, model string) *OpenAIClient {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIClient{client: client, model: model}
}

// TranslateOne asks the model for a translation of text and nothing else.
func (c *OpenAIClient) TranslateOne(ctx context.Context, text, source, target string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(
					"Translate the user's text from %s to %s. Respond with only the translation, nothing else.",
					router.Name(source), router.Name(target)),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: 0.2,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyOpenAIError(ctx, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned: %w", ErrMalformedResponse)
	}
	translation := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translation == "" {
		return "", fmt.Errorf("empty completion: %w", ErrMalformedResponse)
	}
	return translation, nil
}

// classifyOpenAIError maps OpenAI API errors to BackendError.
func classifyOpenAIError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &BackendError{Status: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		be := &BackendError{Status: reqErr.HTTPStatusCode}
		if reqErr.Err != nil {
			be.Body = reqErr.Err.Error()
		}
		return be
	}

	return fmt.Errorf("OpenAI API error: %v: %w", err, ErrBackend)
}
