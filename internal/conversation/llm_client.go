package conversation

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// LLMRequest is a provider-neutral chat completion request.
type LLMRequest struct {
	Model       string
	System      string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float32
}

// LLMResponse carries the generated text.
type LLMResponse struct {
	Text       string
	StopReason string
}

// LLMClient abstracts the chat-completion provider so the engine and tests
// never depend on a vendor SDK directly.
type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}

// ErrEmptyCompletion indicates the provider returned no choices.
var ErrEmptyCompletion = errors.New("conversation: empty completion")

type chatAPI interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClient adapts go-openai to LLMClient.
type OpenAIClient struct {
	client chatAPI
	model  string
}

var _ LLMClient = (*OpenAIClient)(nil)

// NewOpenAIClient builds an adapter around an OpenAI API key.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIClient{client: openai.NewClient(apiKey), model: model}
}

// NewOpenAIClientWith wires an explicit chat API, used by tests.
func NewOpenAIClientWith(client chatAPI, model string) *OpenAIClient {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIClient{client: client, model: model}
}

// Complete sends the chat completion request and returns the first choice.
func (c *OpenAIClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return LLMResponse{}, fmt.Errorf("conversation: chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return LLMResponse{}, ErrEmptyCompletion
	}

	choice := resp.Choices[0]
	return LLMResponse{
		Text:       choice.Message.Content,
		StopReason: string(choice.FinishReason),
	}, nil
}
