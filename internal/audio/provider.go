package audio

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// Provider defines the interface for text-to-speech backends
type Provider interface {
	// Synthesize returns encoded audio for text. A nil slice with a nil
	// error means the provider produces no audio.
	Synthesize(ctx context.Context, text string) ([]byte, error)

	// Name returns the provider name
	Name() string

	// Extension returns the file extension of the produced audio, without dot
	Extension() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Audio modes accepted by NewProvider
const (
	ModeGTTS   = "gtts"
	ModeOpenAI = "openai"
	ModeGemini = "gemini"
	ModeESpeak = "espeak"
	ModeNone   = "none"
)

// Modes lists every supported audio mode
func Modes() []string {
	return []string{ModeGTTS, ModeOpenAI, ModeGemini, ModeESpeak, ModeNone}
}

// Config holds common configuration for audio providers
type Config struct {
	Provider string // One of the Mode constants
	Language string // Language code passed to gtts-cli

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "echo", "nova", ...
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // Voice instructions for gpt-4o-mini-tts model

	// Gemini-specific settings
	GeminiKey   string
	GeminiModel string
	GeminiVoice string

	// espeak-ng settings
	ESpeak *ESpeakConfig

	// On-disk cache of synthesized phrases
	CacheDir    string
	EnableCache bool
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:          ModeGTTS,
		Language:          "ru",
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAIVoice:       "alloy",
		OpenAISpeed:       1.0,
		OpenAIInstruction: "You are reading short Russian example sentences for language learners. Use natural Russian pronunciation and speak clearly at a moderate pace.",
		GeminiModel:       "gemini-2.5-flash-preview-tts",
		GeminiVoice:       "Kore",
		ESpeak:            DefaultESpeakConfig(),
	}
}

// NewProvider creates the appropriate audio provider based on configuration
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	var (
		provider Provider
		err      error
	)

	switch config.Provider {
	case ModeGTTS:
		provider, err = NewGTTSProvider(config.Language)
	case ModeOpenAI:
		provider, err = NewOpenAIProvider(config)
	case ModeGemini:
		provider, err = NewGeminiProvider(config)
	case ModeESpeak:
		provider, err = NewESpeakProvider(config.ESpeak)
	case ModeNone, "":
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown audio provider: %s", config.Provider)
	}
	if err != nil {
		return nil, err
	}

	if config.EnableCache && config.CacheDir != "" {
		return NewCachedProvider(provider, config.CacheDir, config.cacheSalt())
	}

	return provider, nil
}

// cacheSalt identifies every setting that changes the produced audio
func (c *Config) cacheSalt() string {
	salt := c.Provider + "|" + c.Language
	switch c.Provider {
	case ModeOpenAI:
		salt += fmt.Sprintf("|%s|%s|%.2f|%s", c.OpenAIModel, c.OpenAIVoice, c.OpenAISpeed, c.OpenAIInstruction)
	case ModeGemini:
		salt += "|" + c.GeminiModel + "|" + c.GeminiVoice
	case ModeESpeak:
		if c.ESpeak != nil {
			salt += fmt.Sprintf("|%s|%d|%d|%d", c.ESpeak.Voice, c.ESpeak.Speed, c.ESpeak.Pitch, c.ESpeak.Amplitude)
		}
	}
	h := md5.Sum([]byte(salt))
	return hex.EncodeToString(h[:])
}

// Save synthesizes text and writes it to outputFile. It reports whether a
// file was written; disabled providers write nothing. Every backend
// failure is returned as a *SynthesisError.
func Save(ctx context.Context, p Provider, text, outputFile string) (bool, error) {
	data, err := p.Synthesize(ctx, text)
	if err != nil {
		return false, &SynthesisError{Provider: p.Name(), Text: text, Err: err}
	}
	if data == nil {
		return false, nil
	}
	if len(data) == 0 {
		return false, &SynthesisError{Provider: p.Name(), Text: text, Err: fmt.Errorf("no audio data received")}
	}

	// Ensure output directory exists
	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return false, fmt.Errorf("failed to write audio file: %w", err)
	}

	return true, nil
}

// Disabled is the provider used when audio is turned off
type Disabled struct{}

// Synthesize returns no audio
func (Disabled) Synthesize(ctx context.Context, text string) ([]byte, error) {
	return nil, nil
}

// Name returns the provider name
func (Disabled) Name() string { return ModeNone }

// Extension returns an empty extension
func (Disabled) Extension() string { return "" }

// IsAvailable always succeeds
func (Disabled) IsAvailable() error { return nil }
