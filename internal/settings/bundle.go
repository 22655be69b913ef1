// Package settings loads and caches per-dealer configuration with
// dealer-over-global precedence.
package settings

import (
	"strconv"
	"time"
)

// Setting keys stored in the dealer_settings table.
const (
	KeyOpenAIAPIKey     = "openai_api_key"
	KeyElevenLabsAPIKey = "elevenlabs_api_key"
	KeyDeepgramAPIKey   = "deepgram_api_key"
	KeyAzureAPIKey      = "azure_api_key"

	KeyVoiceProvider    = "voice_provider"
	KeyTTSProvider      = "tts_provider"
	KeySpeechProvider   = "speech_provider"
	KeyElevenLabsVoice  = "elevenlabs_voice"
	KeyOpenAIVoice      = "openai_voice"
	KeyVoiceQuality     = "voice_quality"
	KeyVoiceSpeed       = "voice_speed"
	KeyVoicePitch       = "voice_pitch"
	KeyVoiceEmotion     = "voice_emotion"
	KeyVoiceAutoRespond = "voice_auto_response"

	KeyCrewEnabled     = "crewai_enabled"
	KeyCrewMaxTokens   = "crewai_max_tokens"
	KeyCrewAutoRouting = "crewai_auto_routing"

	KeyMasterPrompt     = "master_prompt"
	KeyStyleGuidelines  = "style_guidelines"
	KeySalesMethodology = "sales_methodology"
	KeyFactsIntegrity   = "facts_integrity"
	KeyVoiceBehavior    = "voice_behavior"
	KeyRefusalHandling  = "refusal_handling"
)

// defaults are the hard-coded values used when neither a dealer-scoped nor a
// global row exists for a key.
var defaults = map[string]string{
	KeyVoiceProvider:    "elevenlabs",
	KeyTTSProvider:      "elevenlabs",
	KeySpeechProvider:   "deepgram",
	KeyElevenLabsVoice:  "jessica",
	KeyOpenAIVoice:      "alloy",
	KeyVoiceQuality:     "standard",
	KeyVoiceSpeed:       "1.0",
	KeyVoicePitch:       "1.0",
	KeyVoiceEmotion:     "friendly",
	KeyVoiceAutoRespond: "true",
	KeyCrewEnabled:      "true",
	KeyCrewMaxTokens:    "500",
	KeyCrewAutoRouting:  "true",
}

// Bundle is the merged settings view for one dealer (or the global scope).
// Accessors are pure projections over the merged values and never issue
// queries of their own.
type Bundle struct {
	DealerID string
	LoadedAt time.Time

	values map[string]string
}

// NewBundle builds a bundle from already-merged values. Used by the store and
// by tests that need a fixed bundle.
func NewBundle(dealerID string, values map[string]string) *Bundle {
	if values == nil {
		values = map[string]string{}
	}
	return &Bundle{DealerID: dealerID, LoadedAt: time.Now().UTC(), values: values}
}

// DefaultBundle returns a bundle with no stored rows, only hard-coded defaults.
func DefaultBundle(dealerID string) *Bundle {
	return NewBundle(dealerID, nil)
}

// Value returns the stored value for key, falling back to the hard-coded
// default and then the empty string.
func (b *Bundle) Value(key string) string {
	if v, ok := b.values[key]; ok && v != "" {
		return v
	}
	return defaults[key]
}

func (b *Bundle) boolValue(key string) bool {
	v, err := strconv.ParseBool(b.Value(key))
	if err != nil {
		return false
	}
	return v
}

func (b *Bundle) intValue(key string, fallback int) int {
	v, err := strconv.Atoi(b.Value(key))
	if err != nil {
		return fallback
	}
	return v
}

func (b *Bundle) floatValue(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(b.Value(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

// APIKeys holds provider credentials for a dealer.
type APIKeys struct {
	OpenAI     string
	ElevenLabs string
	Deepgram   string
	Azure      string
}

// VoiceSettings holds the dealer's voice and TTS preferences.
type VoiceSettings struct {
	Provider     string
	TTSProvider  string
	Speech       string
	ElevenVoice  string
	OpenAIVoice  string
	Quality      string
	Speed        float64
	Pitch        float64
	Emotion      string
	AutoResponse bool
}

// CrewSettings controls the LLM-backed response strategy.
type CrewSettings struct {
	Enabled     bool
	MaxTokens   int
	AutoRouting bool
}

// APIKeys projects the credential keys out of the bundle.
func (b *Bundle) APIKeys() APIKeys {
	return APIKeys{
		OpenAI:     b.Value(KeyOpenAIAPIKey),
		ElevenLabs: b.Value(KeyElevenLabsAPIKey),
		Deepgram:   b.Value(KeyDeepgramAPIKey),
		Azure:      b.Value(KeyAzureAPIKey),
	}
}

// VoiceSettings projects the voice preferences out of the bundle.
func (b *Bundle) VoiceSettings() VoiceSettings {
	return VoiceSettings{
		Provider:     b.Value(KeyVoiceProvider),
		TTSProvider:  b.Value(KeyTTSProvider),
		Speech:       b.Value(KeySpeechProvider),
		ElevenVoice:  b.Value(KeyElevenLabsVoice),
		OpenAIVoice:  b.Value(KeyOpenAIVoice),
		Quality:      b.Value(KeyVoiceQuality),
		Speed:        b.floatValue(KeyVoiceSpeed, 1.0),
		Pitch:        b.floatValue(KeyVoicePitch, 1.0),
		Emotion:      b.Value(KeyVoiceEmotion),
		AutoResponse: b.boolValue(KeyVoiceAutoRespond),
	}
}

// CrewSettings projects the LLM strategy toggles out of the bundle.
func (b *Bundle) CrewSettings() CrewSettings {
	return CrewSettings{
		Enabled:     b.boolValue(KeyCrewEnabled),
		MaxTokens:   b.intValue(KeyCrewMaxTokens, 500),
		AutoRouting: b.boolValue(KeyCrewAutoRouting),
	}
}

// PromptSections returns the dealer prompt-template sections in the order they
// are appended to the system prompt. Empty sections are skipped by callers.
func (b *Bundle) PromptSections() []PromptSection {
	return []PromptSection{
		{"Master Prompt", b.Value(KeyMasterPrompt)},
		{"Style Guidelines", b.Value(KeyStyleGuidelines)},
		{"Sales Methodology", b.Value(KeySalesMethodology)},
		{"Facts & Integrity", b.Value(KeyFactsIntegrity)},
		{"Voice Behavior", b.Value(KeyVoiceBehavior)},
		{"Refusal Handling", b.Value(KeyRefusalHandling)},
	}
}

// PromptSection is one optional block of the dealer's system prompt.
type PromptSection struct {
	Title string
	Body  string
}
