package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// GTTSProvider implements Provider interface using Google Translate TTS
// through the gtts-cli command from the Python gTTS package
type GTTSProvider struct {
	language string
	binary   string
}

// NewGTTSProvider creates a new gtts-cli provider for the given language
func NewGTTSProvider(language string) (Provider, error) {
	binary, err := lookupGTTS()
	if err != nil {
		return nil, err
	}

	if language == "" {
		language = "ru"
	}

	log.Debug("gTTS provider initialized", "binary", binary, "lang", language)
	return &GTTSProvider{language: language, binary: binary}, nil
}

// Synthesize generates MP3 audio. gtts-cli writes to stdout when no
// --output is given.
func (p *GTTSProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if err := ValidateRussianText(text); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, p.binary, text, "--lang", p.language)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("gtts-cli failed: %w\nstderr: %s", err, stderr.String())
	}

	return stdout.Bytes(), nil
}

// Name returns the provider name
func (p *GTTSProvider) Name() string {
	return "gtts"
}

// Extension returns mp3
func (p *GTTSProvider) Extension() string {
	return "mp3"
}

// IsAvailable checks if gtts-cli can be found
func (p *GTTSProvider) IsAvailable() error {
	_, err := lookupGTTS()
	return err
}

// lookupGTTS searches PATH and the usual pip --user location
func lookupGTTS() (string, error) {
	candidates := []string{"gtts-cli"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".local", "bin", "gtts-cli"))
	}

	for _, c := range candidates {
		if path, err := exec.LookPath(c); err == nil {
			return path, nil
		}
	}

	return "", missing("gtts-cli not found. Install with: pip install gTTS")
}
