// Package models lists the OpenAI text-to-speech models and voices that
// the openai audio mode can use with the configured API key.
package models
