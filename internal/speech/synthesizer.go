package speech

import (
	"context"
	"time"

	"github.com/autolane/dealer-ai-platform/internal/observability/metrics"
	"github.com/autolane/dealer-ai-platform/internal/settings"
	"github.com/autolane/dealer-ai-platform/pkg/logging"
)

// MaxTextLength is the hard cap submitted to any TTS provider.
const MaxTextLength = 4000

const (
	providerElevenLabs = "elevenlabs"
	providerOpenAI     = "openai"
)

// Config holds server-level fallback credentials used when a dealer has no
// key of its own, plus the per-call timeout.
type Config struct {
	ElevenLabsAPIKey string
	OpenAIAPIKey     string
	Timeout          time.Duration
}

// Synthesizer runs the TTS provider fallback chain and persists the audio
// artifact. A nil return means "no audio" — synthesis failures are logged,
// never surfaced to callers.
type Synthesizer struct {
	settings settings.Store
	eleven   *ElevenLabsClient
	openAI   *OpenAITTS
	store    ArtifactStore
	cfg      Config
	metrics  *metrics.SpeechMetrics
	logger   *logging.Logger
}

// NewSynthesizer wires the fallback chain.
func NewSynthesizer(st settings.Store, eleven *ElevenLabsClient, openAI *OpenAITTS, store ArtifactStore, cfg Config, m *metrics.SpeechMetrics, logger *logging.Logger) *Synthesizer {
	if st == nil {
		panic("speech: settings store cannot be nil")
	}
	if store == nil {
		panic("speech: artifact store cannot be nil")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Synthesizer{
		settings: st,
		eleven:   eleven,
		openAI:   openAI,
		store:    store,
		cfg:      cfg,
		metrics:  m,
		logger:   logger,
	}
}

// Synthesize converts the text to audio using the dealer's configured
// provider, falling back to the next provider in the chain on failure.
func (s *Synthesizer) Synthesize(ctx context.Context, text, dealerID string) *Artifact {
	if text == "" || dealerID == "" {
		return nil
	}
	if len(text) > MaxTextLength {
		text = text[:MaxTextLength]
	}

	bundle, err := s.settings.Get(ctx, dealerID)
	if err != nil {
		s.logger.Warn("tts settings load failed", "error", err, "dealer_id", dealerID)
		return nil
	}
	voice := bundle.VoiceSettings()
	keys := bundle.APIKeys()

	elevenKey := firstNonEmpty(keys.ElevenLabs, s.cfg.ElevenLabsAPIKey)
	openAIKey := firstNonEmpty(keys.OpenAI, s.cfg.OpenAIAPIKey)

	elevenSelected := voice.Provider == providerElevenLabs || voice.TTSProvider == providerElevenLabs
	openAISelected := voice.Provider == providerOpenAI || voice.TTSProvider == providerOpenAI

	if elevenSelected && elevenKey != "" && s.eleven != nil {
		if artifact := s.tryElevenLabs(ctx, elevenKey, voice, text, dealerID); artifact != nil {
			return artifact
		}
		// ElevenLabs failed; fall through to OpenAI when a key exists.
		openAISelected = openAISelected || openAIKey != ""
	}

	if openAISelected && openAIKey != "" && s.openAI != nil {
		if artifact := s.tryOpenAI(ctx, openAIKey, voice, text, dealerID); artifact != nil {
			return artifact
		}
	}

	return nil
}

func (s *Synthesizer) tryElevenLabs(ctx context.Context, apiKey string, voice settings.VoiceSettings, text, dealerID string) *Artifact {
	voiceID, known := ResolveElevenVoice(voice.ElevenVoice)
	if !known {
		s.logger.Warn("unknown elevenlabs voice, using default",
			"voice", voice.ElevenVoice, "dealer_id", dealerID)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	audio, err := s.eleven.Synthesize(callCtx, apiKey, voiceID, text)
	if err != nil {
		s.metrics.ObserveSynthesis(providerElevenLabs, "error")
		s.logger.Warn("elevenlabs synthesis failed", "error", err, "dealer_id", dealerID)
		return nil
	}
	return s.persist(ctx, providerElevenLabs, dealerID, audio)
}

func (s *Synthesizer) tryOpenAI(ctx context.Context, apiKey string, voice settings.VoiceSettings, text, dealerID string) *Artifact {
	voiceName, known := ResolveOpenAIVoice(voice.OpenAIVoice)
	if !known {
		s.logger.Warn("unknown openai voice, using default",
			"voice", voice.OpenAIVoice, "dealer_id", dealerID)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	audio, err := s.openAI.Synthesize(callCtx, apiKey, voiceName, voice.Quality, text, voice.Speed)
	if err != nil {
		s.metrics.ObserveSynthesis(providerOpenAI, "error")
		s.logger.Warn("openai synthesis failed", "error", err, "dealer_id", dealerID)
		return nil
	}
	return s.persist(ctx, providerOpenAI, dealerID, audio)
}

func (s *Synthesizer) persist(ctx context.Context, provider, dealerID string, audio []byte) *Artifact {
	key := audioKey(dealerID)
	url, err := s.store.Save(ctx, key, audio)
	if err != nil {
		s.metrics.ObserveSynthesis(provider, "persist_error")
		s.logger.Error("failed to persist audio artifact", "error", err, "dealer_id", dealerID)
		return nil
	}
	s.metrics.ObserveSynthesis(provider, "success")
	return &Artifact{Provider: provider, URL: url, Key: key}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
