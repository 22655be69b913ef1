package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultElevenBaseURL = "https://api.elevenlabs.io"

// ElevenLabsClient calls the ElevenLabs text-to-speech endpoint. API keys are
// passed per call because they are dealer-scoped settings.
type ElevenLabsClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewElevenLabsClient creates a TTS client. An empty baseURL uses the public
// API; tests point it at a local server.
func NewElevenLabsClient(baseURL, model string, httpClient *http.Client) *ElevenLabsClient {
	if baseURL == "" {
		baseURL = defaultElevenBaseURL
	}
	if model == "" {
		model = "eleven_turbo_v2"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ElevenLabsClient{baseURL: baseURL, model: model, httpClient: httpClient}
}

type elevenVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	SpeakerBoost    bool    `json:"use_speaker_boost"`
}

type elevenRequest struct {
	Text          string              `json:"text"`
	ModelID       string              `json:"model_id"`
	VoiceSettings elevenVoiceSettings `json:"voice_settings"`
	OutputFormat  string              `json:"output_format"`
}

// Synthesize posts the text to the voice endpoint and returns audio bytes.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, apiKey, voiceID, text string) ([]byte, error) {
	payload := elevenRequest{
		Text:    text,
		ModelID: c.model,
		VoiceSettings: elevenVoiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.7,
			Style:           0.2,
			SpeakerBoost:    true,
		},
		OutputFormat: "mp3_44100_128",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("speech: encode elevenlabs request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("speech: build elevenlabs request: %w", err)
	}
	req.Header.Set("xi-api-key", apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech: elevenlabs request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("speech: elevenlabs returned %d: %s", resp.StatusCode, detail)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("speech: read elevenlabs audio: %w", err)
	}
	return audio, nil
}
