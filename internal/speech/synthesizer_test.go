package speech

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/autolane/dealer-ai-platform/internal/settings"
	"github.com/autolane/dealer-ai-platform/pkg/logging"
)

type fakeSettingsStore struct {
	values map[string]string
}

func (f *fakeSettingsStore) Get(_ context.Context, dealerID string) (*settings.Bundle, error) {
	return settings.NewBundle(dealerID, f.values), nil
}

func (f *fakeSettingsStore) Invalidate(string) {}

type stubSpeechAPI struct {
	lastInput string
	lastModel openai.SpeechModel
	err       error
}

func (s *stubSpeechAPI) CreateSpeech(_ context.Context, req openai.CreateSpeechRequest) (openai.RawResponse, error) {
	s.lastInput = req.Input
	s.lastModel = req.Model
	if s.err != nil {
		return openai.RawResponse{}, s.err
	}
	return openai.RawResponse{ReadCloser: io.NopCloser(strings.NewReader("openai-audio"))}, nil
}

func newTestSynthesizer(t *testing.T, store settings.Store, eleven *ElevenLabsClient, api *stubSpeechAPI, cfg Config) *Synthesizer {
	t.Helper()
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Second
	}
	var tts *OpenAITTS
	if api != nil {
		tts = NewOpenAITTS(func(string) speechAPI { return api })
	}
	artifacts := NewLocalStore(t.TempDir(), "http://localhost/audio")
	return NewSynthesizer(store, eleven, tts, artifacts, cfg, nil, logging.Default())
}

func TestSynthesize_OpenAIOnlyNeverCallsElevenLabs(t *testing.T) {
	elevenCalled := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		elevenCalled = true
		_, _ = w.Write([]byte("audio"))
	}))
	defer server.Close()

	store := &fakeSettingsStore{values: map[string]string{
		settings.KeyTTSProvider:  "openai",
		settings.KeyOpenAIAPIKey: "sk-test",
	}}
	api := &stubSpeechAPI{}
	s := newTestSynthesizer(t, store, NewElevenLabsClient(server.URL, "", server.Client()), api, Config{})

	artifact := s.Synthesize(context.Background(), "hello", "dealer-1")
	if artifact == nil {
		t.Fatal("expected artifact on provider success")
	}
	if artifact.Provider != "openai" {
		t.Errorf("provider = %q", artifact.Provider)
	}
	if elevenCalled {
		t.Error("elevenlabs must not be called when only openai is configured")
	}
}

func TestSynthesize_OpenAIFailureReturnsNil(t *testing.T) {
	store := &fakeSettingsStore{values: map[string]string{
		settings.KeyTTSProvider:  "openai",
		settings.KeyOpenAIAPIKey: "sk-test",
	}}
	api := &stubSpeechAPI{err: errors.New("rate limited")}
	s := newTestSynthesizer(t, store, nil, api, Config{})

	if artifact := s.Synthesize(context.Background(), "hello", "dealer-1"); artifact != nil {
		t.Fatalf("expected nil on provider failure, got %+v", artifact)
	}
}

func TestSynthesize_ElevenLabsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Voice ID comes from the fixed name table.
		if !strings.HasSuffix(r.URL.Path, "/TX3LPaxmHKxFdv7VOQHJ") {
			t.Errorf("unexpected voice path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte("eleven-audio"))
	}))
	defer server.Close()

	store := &fakeSettingsStore{values: map[string]string{
		settings.KeyTTSProvider:      "elevenlabs",
		settings.KeyElevenLabsAPIKey: "xi-key",
		settings.KeyElevenLabsVoice:  "liam",
	}}
	s := newTestSynthesizer(t, store, NewElevenLabsClient(server.URL, "", server.Client()), nil, Config{})

	artifact := s.Synthesize(context.Background(), "hello", "dealer-1")
	if artifact == nil {
		t.Fatal("expected artifact")
	}
	if artifact.Provider != "elevenlabs" {
		t.Errorf("provider = %q", artifact.Provider)
	}
	if artifact.URL == "" || artifact.Key == "" {
		t.Errorf("artifact not fully populated: %+v", artifact)
	}
}

func TestSynthesize_ElevenLabsFailureFallsBackToOpenAI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	store := &fakeSettingsStore{values: map[string]string{
		settings.KeyTTSProvider:      "elevenlabs",
		settings.KeyElevenLabsAPIKey: "xi-key",
		settings.KeyOpenAIAPIKey:     "sk-test",
	}}
	api := &stubSpeechAPI{}
	s := newTestSynthesizer(t, store, NewElevenLabsClient(server.URL, "", server.Client()), api, Config{})

	artifact := s.Synthesize(context.Background(), "hello", "dealer-1")
	if artifact == nil {
		t.Fatal("expected fallback artifact")
	}
	if artifact.Provider != "openai" {
		t.Errorf("provider = %q, want openai", artifact.Provider)
	}
}

func TestSynthesize_TruncatesLongText(t *testing.T) {
	store := &fakeSettingsStore{values: map[string]string{
		settings.KeyTTSProvider:  "openai",
		settings.KeyOpenAIAPIKey: "sk-test",
	}}
	api := &stubSpeechAPI{}
	s := newTestSynthesizer(t, store, nil, api, Config{})

	long := strings.Repeat("a", MaxTextLength+500)
	if artifact := s.Synthesize(context.Background(), long, "dealer-1"); artifact == nil {
		t.Fatal("expected artifact")
	}
	if len(api.lastInput) != MaxTextLength {
		t.Errorf("provider received %d chars, want %d", len(api.lastInput), MaxTextLength)
	}
}

func TestSynthesize_QualitySelectsHDModel(t *testing.T) {
	store := &fakeSettingsStore{values: map[string]string{
		settings.KeyTTSProvider:  "openai",
		settings.KeyOpenAIAPIKey: "sk-test",
		settings.KeyVoiceQuality: "hd",
	}}
	api := &stubSpeechAPI{}
	s := newTestSynthesizer(t, store, nil, api, Config{})

	if artifact := s.Synthesize(context.Background(), "hello", "dealer-1"); artifact == nil {
		t.Fatal("expected artifact")
	}
	if api.lastModel != openai.TTSModel1HD {
		t.Errorf("model = %q, want hd", api.lastModel)
	}
}

func TestSynthesize_NothingConfigured(t *testing.T) {
	store := &fakeSettingsStore{values: map[string]string{}}
	s := newTestSynthesizer(t, store, nil, nil, Config{})

	if artifact := s.Synthesize(context.Background(), "hello", "dealer-1"); artifact != nil {
		t.Fatalf("expected nil, got %+v", artifact)
	}
}

func TestSynthesize_EmptyTextOrDealer(t *testing.T) {
	store := &fakeSettingsStore{values: map[string]string{}}
	s := newTestSynthesizer(t, store, nil, nil, Config{})

	if s.Synthesize(context.Background(), "", "dealer-1") != nil {
		t.Error("empty text must yield nil")
	}
	if s.Synthesize(context.Background(), "hello", "") != nil {
		t.Error("empty dealer must yield nil")
	}
}
