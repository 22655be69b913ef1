package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/autolane/dealer-ai-platform/pkg/logging"
)

const defaultLLMTimeout = 10 * time.Second

// ClientFactory builds an LLMClient for a dealer-scoped API key. Dealers can
// carry their own OpenAI key in settings; the factory keeps the strategy
// decoupled from the vendor SDK.
type ClientFactory func(apiKey string) LLMClient

// llmStrategy answers with a chat completion. It is gated on the dealer's
// crew toggle and a usable API key, and treats any provider error or timeout
// as a stage failure so the pipeline falls through to the rule-based stage.
// There is no retry.
type llmStrategy struct {
	factory   ClientFactory
	serverKey string
	model     string
	timeout   time.Duration
	history   *HistoryStore
	log       *logging.Logger
}

// LLMConfig configures the LLM stage. ServerKey is the platform-level OpenAI
// key used when a dealer carries none of its own.
type LLMConfig struct {
	Factory   ClientFactory
	ServerKey string
	Model     string
	Timeout   time.Duration
	History   *HistoryStore
	Log       *logging.Logger
}

func newLLMStrategy(cfg LLMConfig) *llmStrategy {
	if cfg.Factory == nil {
		model := cfg.Model
		cfg.Factory = func(apiKey string) LLMClient {
			return NewOpenAIClient(apiKey, model)
		}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultLLMTimeout
	}
	return &llmStrategy{
		factory:   cfg.Factory,
		serverKey: cfg.ServerKey,
		model:     cfg.Model,
		timeout:   cfg.Timeout,
		history:   cfg.History,
		log:       cfg.Log,
	}
}

func (s *llmStrategy) Name() string { return "llm" }

func (s *llmStrategy) apiKey(t *turn) string {
	if t.bundle != nil {
		if key := t.bundle.APIKeys().OpenAI; key != "" {
			return key
		}
	}
	return s.serverKey
}

func (s *llmStrategy) Eligible(t *turn) bool {
	if t.dealerID == "" {
		return false
	}
	if t.bundle != nil && !t.bundle.CrewSettings().Enabled {
		return false
	}
	return s.apiKey(t) != ""
}

func (s *llmStrategy) Respond(ctx context.Context, t *turn) (stageAnswer, error) {
	client := s.factory(s.apiKey(t))

	maxTokens := 500
	if t.bundle != nil {
		maxTokens = t.bundle.CrewSettings().MaxTokens
	}

	messages := make([]ChatMessage, 0, len(t.history)+1)
	messages = append(messages, t.history...)
	messages = append(messages, ChatMessage{Role: ChatRoleUser, Content: t.message})

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := client.Complete(callCtx, LLMRequest{
		Model:       s.model,
		System:      t.systemPrompt(),
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return stageAnswer{}, err
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return stageAnswer{}, ErrEmptyCompletion
	}

	if s.history != nil {
		updated := append(messages, ChatMessage{Role: ChatRoleAssistant, Content: text})
		if err := s.history.Save(ctx, t.req.SessionID, updated); err != nil {
			s.log.Warn("chat history save failed", "session_id", t.req.SessionID, "error", err)
		}
	}

	return stageAnswer{Response: text, CrewUsed: true, CrewType: CrewOpenAI}, nil
}

func (t *turn) systemPrompt() string {
	if t.bundle != nil {
		return BuildSystemPrompt(t.dealerName, t.vehicle, t.bundle.PromptSections())
	}
	return BuildSystemPrompt(t.dealerName, t.vehicle, nil)
}
