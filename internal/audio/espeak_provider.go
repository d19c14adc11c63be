package audio

import (
	"context"
)

// ESpeakProvider implements Provider interface for espeak-ng
type ESpeakProvider struct {
	espeak *ESpeak
}

// NewESpeakProvider creates a new espeak-ng provider
func NewESpeakProvider(config *ESpeakConfig) (Provider, error) {
	espeak, err := NewESpeak(config)
	if err != nil {
		return nil, err
	}

	return &ESpeakProvider{espeak: espeak}, nil
}

// Synthesize generates WAV audio using espeak-ng
func (p *ESpeakProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if err := ValidateRussianText(text); err != nil {
		return nil, err
	}

	return p.espeak.Generate(ctx, text)
}

// Name returns the provider name
func (p *ESpeakProvider) Name() string {
	return "espeak-ng"
}

// Extension returns wav; espeak-ng writes WAV natively
func (p *ESpeakProvider) Extension() string {
	return "wav"
}

// IsAvailable checks if espeak-ng is installed
func (p *ESpeakProvider) IsAvailable() error {
	_, err := lookupESpeak()
	return err
}
