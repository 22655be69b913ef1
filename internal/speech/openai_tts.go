package speech

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// speechAPI is the subset of the OpenAI client used for TTS.
type speechAPI interface {
	CreateSpeech(ctx context.Context, request openai.CreateSpeechRequest) (openai.RawResponse, error)
}

// OpenAIClientFactory builds a speech client for a dealer-scoped API key.
// The default factory wraps go-openai; tests substitute a stub.
type OpenAIClientFactory func(apiKey string) speechAPI

func defaultOpenAIFactory(apiKey string) speechAPI {
	return openai.NewClient(apiKey)
}

// OpenAITTS calls the OpenAI speech endpoint.
type OpenAITTS struct {
	factory OpenAIClientFactory
}

// NewOpenAITTS creates an OpenAI TTS client. A nil factory uses go-openai.
func NewOpenAITTS(factory OpenAIClientFactory) *OpenAITTS {
	if factory == nil {
		factory = defaultOpenAIFactory
	}
	return &OpenAITTS{factory: factory}
}

// Synthesize generates audio for the text. Quality "hd" selects the HD model,
// anything else the standard one.
func (c *OpenAITTS) Synthesize(ctx context.Context, apiKey, voice, quality, text string, speed float64) ([]byte, error) {
	model := openai.TTSModel1
	if quality == "hd" {
		model = openai.TTSModel1HD
	}
	if speed <= 0 {
		speed = 1.0
	}

	client := c.factory(apiKey)
	resp, err := client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: model,
		Input: text,
		Voice: openai.SpeechVoice(voice),
		Speed: speed,
	})
	if err != nil {
		return nil, fmt.Errorf("speech: openai tts failed: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("speech: read openai audio: %w", err)
	}
	return audio, nil
}
