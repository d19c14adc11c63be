package audio

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"google.golang.org/genai"
)

// Gemini TTS models return raw 16-bit mono PCM at 24 kHz
const geminiSampleRate = 24000

// GeminiProvider implements Provider interface for Gemini text-to-speech
type GeminiProvider struct {
	client *genai.Client
	model  string
	voice  string
	apiKey string
}

// NewGeminiProvider creates a new Gemini TTS provider
func NewGeminiProvider(config *Config) (Provider, error) {
	if config.GeminiKey == "" {
		return nil, missing("Gemini API key is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		model:  config.GeminiModel,
		voice:  config.GeminiVoice,
		apiKey: config.GeminiKey,
	}, nil
}

// Synthesize generates WAV audio using a Gemini TTS model
func (p *GeminiProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if err := ValidateRussianText(text); err != nil {
		return nil, err
	}

	log.Debug("Gemini TTS", "model", p.model, "voice", p.voice, "input", text)

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(text), &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: p.voice},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini TTS API error: %w", err)
	}

	pcm := inlineAudio(resp)
	if len(pcm) == 0 {
		return nil, fmt.Errorf("no audio data received from Gemini")
	}

	return EncodeWAV(pcm, geminiSampleRate, 1), nil
}

// inlineAudio concatenates the inline data parts of the first candidate
func inlineAudio(resp *genai.GenerateContentResponse) []byte {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}

	var pcm []byte
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil {
			pcm = append(pcm, part.InlineData.Data...)
		}
	}
	return pcm
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Extension returns wav
func (p *GeminiProvider) Extension() string {
	return "wav"
}

// IsAvailable checks if the Gemini API is configured
func (p *GeminiProvider) IsAvailable() error {
	if p.apiKey == "" {
		return missing("Gemini API key not configured")
	}
	return nil
}
