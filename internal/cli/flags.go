package cli

import (
	"fmt"
	"slices"

	"codeberg.org/snonux/ruverbs/internal/audio"
)

// Audio failure policies
const (
	OnErrorAbort = "abort"
	OnErrorSkip  = "skip"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	Out        string
	CSV        string
	DeckName   string
	Count      int
	Seeds      string
	FromCSV    string
	Preview    int
	Archive    bool
	ListModels bool
	Verbose    bool

	// Audio flags
	Audio            string
	NoAudio          bool
	ESpeak           bool
	OnAudioError     string
	MaxAudioFailures int
	CacheDir         string

	// OpenAI flags
	OpenAIModel       string
	OpenAIVoice       string
	OpenAISpeed       float64
	OpenAIInstruction string

	// Gemini flags
	GeminiModel string
	GeminiVoice string

	// espeak-ng flags
	ESpeakVoice     string
	ESpeakSpeed     int
	ESpeakPitch     int
	ESpeakAmplitude int
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Out:              "Russian_Verbs_1000_Literal.apkg",
		CSV:              "russian_verbs_1000.csv",
		DeckName:         "Russian Verbs 1000 – Literal & Audio",
		Count:            1000,
		Audio:            audio.ModeGTTS,
		OnAudioError:     OnErrorAbort,
		MaxAudioFailures: 5,
		OpenAIModel:      "gpt-4o-mini-tts",
		OpenAIVoice:      "alloy",
		OpenAISpeed:      1.0,
		GeminiModel:      "gemini-2.5-flash-preview-tts",
		GeminiVoice:      "Kore",
		ESpeakVoice:      "ru",
		ESpeakSpeed:      150,
		ESpeakPitch:      50,
		ESpeakAmplitude:  100,
	}
}

// AudioMode resolves the --no-audio and --espeak shorthands; --no-audio wins
func (f *Flags) AudioMode() string {
	switch {
	case f.NoAudio:
		return audio.ModeNone
	case f.ESpeak:
		return audio.ModeESpeak
	default:
		return f.Audio
	}
}

// Validate checks flag combinations before any work starts
func (f *Flags) Validate() error {
	if f.Count <= 0 {
		return fmt.Errorf("--count must be positive, got %d", f.Count)
	}
	if f.Preview < 0 {
		return fmt.Errorf("--preview must not be negative, got %d", f.Preview)
	}
	if mode := f.AudioMode(); !slices.Contains(audio.Modes(), mode) {
		return fmt.Errorf("unknown audio mode %q (valid: %v)", mode, audio.Modes())
	}
	if f.OnAudioError != OnErrorAbort && f.OnAudioError != OnErrorSkip {
		return fmt.Errorf("--on-audio-error must be %q or %q, got %q", OnErrorAbort, OnErrorSkip, f.OnAudioError)
	}
	if !slices.Contains(audio.ListVoices(), f.ESpeakVoice) {
		return fmt.Errorf("unknown espeak-ng voice %q (valid: %v)", f.ESpeakVoice, audio.ListVoices())
	}
	if f.Out == "" {
		return fmt.Errorf("--out must not be empty")
	}
	if f.CSV == "" {
		return fmt.Errorf("--csv must not be empty")
	}
	return nil
}
