// Package audio synthesizes spoken example phrases. Each backend is a
// Provider strategy (Google Translate TTS via gtts-cli, OpenAI, Gemini,
// espeak-ng, or disabled) so callers never branch on the audio mode.
package audio
