package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// mockProvider implements Provider interface for testing
type mockProvider struct {
	name         string
	data         []byte
	synthErr     error
	availableErr error
	calls        int
}

func (m *mockProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	m.calls++
	if m.synthErr != nil {
		return nil, m.synthErr
	}
	return m.data, nil
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) Extension() string {
	return "mp3"
}

func (m *mockProvider) IsAvailable() error {
	return m.availableErr
}

func TestDefaultProviderConfig(t *testing.T) {
	config := DefaultProviderConfig()

	if config.Provider != ModeGTTS {
		t.Errorf("Expected provider 'gtts', got '%s'", config.Provider)
	}

	if config.Language != "ru" {
		t.Errorf("Expected language 'ru', got '%s'", config.Language)
	}

	if config.OpenAIModel != "gpt-4o-mini-tts" {
		t.Errorf("Expected OpenAI model 'gpt-4o-mini-tts', got '%s'", config.OpenAIModel)
	}

	if config.OpenAIVoice != "alloy" {
		t.Errorf("Expected OpenAI voice 'alloy', got '%s'", config.OpenAIVoice)
	}

	if config.OpenAISpeed != 1.0 {
		t.Errorf("Expected OpenAI speed 1.0, got %f", config.OpenAISpeed)
	}

	if config.ESpeak == nil || config.ESpeak.Voice != "ru" {
		t.Errorf("Expected espeak voice 'ru', got %+v", config.ESpeak)
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name        string
		config      *Config
		wantErr     bool
		wantMissing bool
		wantName    string
	}{
		{
			name:     "none is disabled",
			config:   &Config{Provider: ModeNone},
			wantName: ModeNone,
		},
		{
			name:     "empty provider is disabled",
			config:   &Config{},
			wantName: ModeNone,
		},
		{
			name:        "openai without key",
			config:      &Config{Provider: ModeOpenAI},
			wantErr:     true,
			wantMissing: true,
		},
		{
			name:     "openai with key",
			config:   &Config{Provider: ModeOpenAI, OpenAIKey: "test-key"},
			wantName: "openai",
		},
		{
			name:        "gemini without key",
			config:      &Config{Provider: ModeGemini},
			wantErr:     true,
			wantMissing: true,
		},
		{
			name:    "unknown provider",
			config:  &Config{Provider: "unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantMissing && !errors.Is(err, ErrMissingDependency) {
				t.Errorf("NewProvider() error = %v, want ErrMissingDependency", err)
			}
			if !tt.wantErr && p.Name() != tt.wantName {
				t.Errorf("Name() = %v, want %v", p.Name(), tt.wantName)
			}
		})
	}
}

func TestNewProviderWithCache(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "cache")
	p, err := NewProvider(&Config{
		Provider:    ModeOpenAI,
		OpenAIKey:   "test-key",
		CacheDir:    cacheDir,
		EnableCache: true,
	})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	cached, ok := p.(*CachedProvider)
	if !ok {
		t.Fatalf("Expected *CachedProvider, got %T", p)
	}
	defer cached.Close()

	if cached.Name() != "openai" {
		t.Errorf("Name() = %v, want openai", cached.Name())
	}
}

func TestCacheSaltDiffers(t *testing.T) {
	a := &Config{Provider: ModeOpenAI, OpenAIVoice: "alloy"}
	b := &Config{Provider: ModeOpenAI, OpenAIVoice: "nova"}
	c := &Config{Provider: ModeGTTS}

	if a.cacheSalt() == b.cacheSalt() {
		t.Error("Different voices should produce different cache salts")
	}
	if a.cacheSalt() == c.cacheSalt() {
		t.Error("Different providers should produce different cache salts")
	}
	if a.cacheSalt() != a.cacheSalt() {
		t.Error("Cache salt should be stable")
	}
}

func TestSave(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	t.Run("writes audio", func(t *testing.T) {
		p := &mockProvider{name: "mock", data: []byte("audio")}
		out := filepath.Join(dir, "sub", "a.mp3")

		wrote, err := Save(ctx, p, "Я хочу читать.", out)
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if !wrote {
			t.Error("Save() should report a written file")
		}
		data, err := os.ReadFile(out)
		if err != nil || string(data) != "audio" {
			t.Errorf("Saved file content = %q, %v", data, err)
		}
	})

	t.Run("disabled writes nothing", func(t *testing.T) {
		out := filepath.Join(dir, "none.mp3")
		wrote, err := Save(ctx, Disabled{}, "Я хочу читать.", out)
		if err != nil || wrote {
			t.Errorf("Save() = %v, %v; want false, nil", wrote, err)
		}
		if _, err := os.Stat(out); !os.IsNotExist(err) {
			t.Error("Disabled provider should not create a file")
		}
	})

	t.Run("wraps failures", func(t *testing.T) {
		cause := errors.New("network down")
		p := &mockProvider{name: "mock", synthErr: cause}

		_, err := Save(ctx, p, "Я хочу читать.", filepath.Join(dir, "b.mp3"))
		var synthErr *SynthesisError
		if !errors.As(err, &synthErr) {
			t.Fatalf("Save() error = %v, want *SynthesisError", err)
		}
		if synthErr.Provider != "mock" || !errors.Is(err, cause) {
			t.Errorf("SynthesisError = %+v", synthErr)
		}
	})

	t.Run("empty audio is a failure", func(t *testing.T) {
		p := &mockProvider{name: "mock", data: []byte{}}
		_, err := Save(ctx, p, "Я хочу читать.", filepath.Join(dir, "c.mp3"))
		var synthErr *SynthesisError
		if !errors.As(err, &synthErr) {
			t.Errorf("Save() error = %v, want *SynthesisError", err)
		}
	})
}

func TestDisabled(t *testing.T) {
	var p Provider = Disabled{}

	data, err := p.Synthesize(context.Background(), "Я хочу читать.")
	if data != nil || err != nil {
		t.Errorf("Synthesize() = %v, %v; want nil, nil", data, err)
	}
	if p.Extension() != "" {
		t.Errorf("Extension() = %q, want empty", p.Extension())
	}
	if p.IsAvailable() != nil {
		t.Error("Disabled provider should always be available")
	}
}

func TestModes(t *testing.T) {
	modes := Modes()
	if len(modes) != 5 {
		t.Fatalf("Expected 5 modes, got %d", len(modes))
	}
	for _, m := range modes {
		if m == ModeNone {
			return
		}
	}
	t.Error("Modes() should include none")
}
