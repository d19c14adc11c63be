package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/charmbracelet/log"
)

// ESpeakConfig holds configuration for espeak-ng audio generation
type ESpeakConfig struct {
	Voice     string // Voice variant (e.g., "ru", "ru+m1", "ru+f2")
	Speed     int    // Speech speed in words per minute (default: 150)
	Pitch     int    // Pitch adjustment, 0 to 99 (default: 50)
	Amplitude int    // Volume/amplitude, 0 to 200 (default: 100)
	WordGap   int    // Gap between words in 10ms units (default: 0)
}

// DefaultESpeakConfig returns the default configuration for the Russian voice
func DefaultESpeakConfig() *ESpeakConfig {
	return &ESpeakConfig{
		Voice:     "ru",
		Speed:     150,
		Pitch:     50,
		Amplitude: 100,
		WordGap:   0,
	}
}

// ESpeak runs the espeak-ng binary
type ESpeak struct {
	config *ESpeakConfig
	binary string
}

// NewESpeak creates a new ESpeak instance with the given configuration
func NewESpeak(config *ESpeakConfig) (*ESpeak, error) {
	binary, err := lookupESpeak()
	if err != nil {
		return nil, err
	}

	if config == nil {
		config = DefaultESpeakConfig()
	}

	return &ESpeak{config: config, binary: binary}, nil
}

// args builds the espeak-ng command line; WAV data goes to stdout
func (e *ESpeak) args(text string) []string {
	args := []string{
		"-v", e.config.Voice,
		"-s", strconv.Itoa(e.config.Speed),
		"-p", strconv.Itoa(e.config.Pitch),
		"-a", strconv.Itoa(e.config.Amplitude),
	}

	if e.config.WordGap > 0 {
		args = append(args, "-g", strconv.Itoa(e.config.WordGap))
	}

	return append(args, "--stdout", text)
}

// Generate returns WAV audio for the given text
func (e *ESpeak) Generate(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	cmd := exec.CommandContext(ctx, e.binary, e.args(text)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug("espeak-ng", "voice", e.config.Voice, "speed", e.config.Speed, "text", text)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, stderr.String())
	}

	return stdout.Bytes(), nil
}

// SetSpeed sets the speech speed, clamped to what espeak-ng accepts
func (c *ESpeakConfig) SetSpeed(speed int) {
	c.Speed = min(max(speed, 80), 450)
}

// SetPitch sets the pitch (0-99, 50 is default)
func (c *ESpeakConfig) SetPitch(pitch int) {
	c.Pitch = min(max(pitch, 0), 99)
}

// SetAmplitude sets the volume/amplitude (0-200, 100 is default)
func (c *ESpeakConfig) SetAmplitude(amplitude int) {
	c.Amplitude = min(max(amplitude, 0), 200)
}

// lookupESpeak finds the espeak-ng binary on PATH
func lookupESpeak() (string, error) {
	path, err := exec.LookPath("espeak-ng")
	if err != nil {
		return "", missing("espeak-ng is not installed or not in PATH")
	}
	return path, nil
}

// ListVoices returns available Russian voice variants
func ListVoices() []string {
	return []string{
		"ru",    // Default Russian voice
		"ru+m1", // Russian male voice 1
		"ru+m3", // Russian male voice 3
		"ru+f1", // Russian female voice 1
		"ru+f3", // Russian female voice 3
	}
}
