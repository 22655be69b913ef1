package speech

import "testing"

func TestResolveElevenVoice_Known(t *testing.T) {
	id, known := ResolveElevenVoice("liam")
	if !known {
		t.Fatal("liam should be a known voice")
	}
	if id != "TX3LPaxmHKxFdv7VOQHJ" {
		t.Errorf("liam id = %q", id)
	}
}

func TestResolveElevenVoice_UnknownFallsBack(t *testing.T) {
	id, known := ResolveElevenVoice("optimus-prime")
	if known {
		t.Fatal("unknown voice must report known=false")
	}
	defaultID, _ := ResolveElevenVoice(defaultElevenVoice)
	if id != defaultID {
		t.Errorf("unknown voice resolved to %q, want default %q", id, defaultID)
	}
}

func TestResolveOpenAIVoice(t *testing.T) {
	if v, known := ResolveOpenAIVoice("nova"); !known || v != "nova" {
		t.Errorf("nova resolved to (%q, %v)", v, known)
	}
	if v, known := ResolveOpenAIVoice("not-a-voice"); known || v != defaultOpenAIVoice {
		t.Errorf("unknown resolved to (%q, %v)", v, known)
	}
}
