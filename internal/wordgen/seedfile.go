package wordgen

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/unicode/norm"
)

// LoadSeeds reads seed tables from a TOML file.
//
// Any table the file leaves out is taken from DefaultSeeds, so a file that
// only lists extra templates is valid. Headwords and prefixes are
// normalized to NFC so that composed and decomposed spellings of the same
// word deduplicate.
//
// Example:
//
//	prefixes = ["по", "за"]
//
//	[[base]]
//	tag = "дел-"
//	headword = "делать"
//	gloss = "to do; to make"
//
//	[[derivatives]]
//	base = "делать"
//	forms = [{ headword = "сделать", gloss = "to do (pfv)" }]
//
//	[[templates]]
//	source = "Я хочу {inf}."
//	gloss = "I want {inf}."
func LoadSeeds(path string) (*Seeds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	return ParseSeeds(data)
}

// ParseSeeds decodes TOML seed data, filling gaps from DefaultSeeds
func ParseSeeds(data []byte) (*Seeds, error) {
	var file Seeds
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	seeds := DefaultSeeds()
	if file.Base != nil {
		seeds.Base = file.Base
	}
	if file.Derivatives != nil {
		seeds.Derivatives = file.Derivatives
	}
	if file.Prefixes != nil {
		seeds.Prefixes = file.Prefixes
	}
	if file.Templates != nil {
		seeds.Templates = file.Templates
	}

	seeds.normalize()

	if err := seeds.Validate(); err != nil {
		return nil, err
	}

	return seeds, nil
}

// normalize trims and NFC-normalizes every headword and prefix
func (s *Seeds) normalize() {
	for i := range s.Base {
		s.Base[i].Headword = nfc(s.Base[i].Headword)
		s.Base[i].Tag = strings.TrimSpace(s.Base[i].Tag)
	}
	for i := range s.Derivatives {
		s.Derivatives[i].Base = nfc(s.Derivatives[i].Base)
		for j := range s.Derivatives[i].Forms {
			s.Derivatives[i].Forms[j].Headword = nfc(s.Derivatives[i].Forms[j].Headword)
		}
	}
	for i := range s.Prefixes {
		s.Prefixes[i] = nfc(s.Prefixes[i])
	}
}

func nfc(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
