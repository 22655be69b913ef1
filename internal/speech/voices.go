// Package speech synthesizes response text to audio through a provider
// fallback chain (ElevenLabs, then OpenAI) and persists the artifact.
package speech

// elevenVoiceIDs maps human-readable voice names (what dealers pick in the
// settings UI) to ElevenLabs premade voice identifiers. Unknown names resolve
// to the default voice; resolution never fails.
var elevenVoiceIDs = map[string]string{
	"jessica":   "cgSgspJ2msm6clMCkdW9",
	"liam":      "TX3LPaxmHKxFdv7VOQHJ",
	"sarah":     "EXAVITQu4vr4xnSDxMaL",
	"george":    "JBFqnCBsd6RMkjVDRZzb",
	"charlotte": "XB0fDUnXU5powFXDhCwa",
	"matilda":   "XrExE9yKIg1WjnnlVkGX",
	"brian":     "nPczCjzI2devNBz1zQrb",
	"alice":     "Xb7hH8MSUJpSbSDYk0k2",
	"will":      "bIHbv24MWmeRgasZH58o",
	"daniel":    "onwK4e9ZLuTAKqWW03F9",
	"lily":      "pFZP5JQG7iQjIQuC4Bku",
	"laura":     "FGY2WhTYpPnrIDTdsKH5",
}

const defaultElevenVoice = "jessica"

// openAIVoices is the set of voices the OpenAI TTS endpoint accepts.
var openAIVoices = map[string]bool{
	"alloy":   true,
	"echo":    true,
	"fable":   true,
	"onyx":    true,
	"nova":    true,
	"shimmer": true,
}

const defaultOpenAIVoice = "alloy"

// ResolveElevenVoice maps a configured voice name to its ElevenLabs voice ID.
// The second return reports whether the name was known.
func ResolveElevenVoice(name string) (string, bool) {
	if id, ok := elevenVoiceIDs[name]; ok {
		return id, true
	}
	return elevenVoiceIDs[defaultElevenVoice], false
}

// ResolveOpenAIVoice validates a configured OpenAI voice name, falling back
// to the default for unknown names.
func ResolveOpenAIVoice(name string) (string, bool) {
	if openAIVoices[name] {
		return name, true
	}
	return defaultOpenAIVoice, false
}
