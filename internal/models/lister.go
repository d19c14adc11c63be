package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Voices are the built-in OpenAI TTS voices
var Voices = []string{
	"alloy", "ash", "ballad", "coral", "echo", "fable",
	"nova", "onyx", "sage", "shimmer", "verse",
}

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return NewListerWithConfig(apiKey, openai.DefaultConfig(apiKey))
}

// NewListerWithConfig creates a lister with a custom client configuration
func NewListerWithConfig(apiKey string, config openai.ClientConfig) *Lister {
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
	}
}

// SpeechModels returns the sorted speech-capable model IDs
func (l *Lister) SpeechModels(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .ruverbs.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(models.Models))
	for _, model := range models.Models {
		ids = append(ids, model.ID)
	}
	return speechModels(ids), nil
}

// speechModels filters TTS and audio models out of ids
func speechModels(ids []string) []string {
	var out []string
	for _, id := range ids {
		if strings.Contains(id, "tts") || strings.Contains(id, "audio") {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// ListAvailableModels prints the speech models and voices to w
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	ttsModels, err := l.SpeechModels(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Available OpenAI Models:")
	fmt.Fprintln(w, "\nText-to-Speech (TTS) Models (--openai-model):")
	if len(ttsModels) == 0 {
		fmt.Fprintln(w, "  No TTS models found")
	} else {
		for _, model := range ttsModels {
			fmt.Fprintf(w, "  %s\n", model)
		}
	}

	fmt.Fprintln(w, "\nVoices (--openai-voice):")
	fmt.Fprintf(w, "  %s\n", strings.Join(Voices, ", "))

	return nil
}
