package testutil

import (
	"context"
	"errors"
	"sync"
)

// MockProvider is an audio provider that records calls and returns canned audio
type MockProvider struct {
	mu sync.Mutex

	ProviderName string
	Ext          string
	Data         []byte
	Unavailable  error            // returned by IsAvailable
	Errors       map[string]error // per phrase failures
	FailAll      error            // fails every call when set
	Calls        []string
}

// NewMockProvider returns a provider producing mp3 bytes for every phrase
func NewMockProvider() *MockProvider {
	return &MockProvider{
		ProviderName: "mock",
		Ext:          "mp3",
		Data:         GenerateAudioData(),
		Errors:       make(map[string]error),
	}
}

// Synthesize records the phrase and returns Data or the configured error
func (m *MockProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, text)

	if m.FailAll != nil {
		return nil, m.FailAll
	}
	if err, ok := m.Errors[text]; ok {
		return nil, err
	}
	return m.Data, nil
}

// Name returns the provider name
func (m *MockProvider) Name() string { return m.ProviderName }

// Extension returns the configured extension
func (m *MockProvider) Extension() string { return m.Ext }

// IsAvailable returns Unavailable
func (m *MockProvider) IsAvailable() error { return m.Unavailable }

// CallCount returns how many phrases were synthesized
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// GenerateAudioData generates mock audio data
func GenerateAudioData() []byte {
	// Simple mock MP3 header
	return []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00}
}

// ErrNetwork is a canned backend failure
var ErrNetwork = errors.New("mock network failure")
