package anki

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CSVHeader is the header row of the dataset file
var CSVHeader = []string{"root_tag", "russian", "english_gloss", "phrase_ru", "literal_en"}

// ErrInvalidDataset is returned when a dataset file cannot be read back
var ErrInvalidDataset = errors.New("invalid dataset")

// Card represents a single Anki flashcard
type Card struct {
	Headword     string // Russian infinitive
	Gloss        string // English gloss
	PhraseSource string // Russian example phrase
	PhraseGloss  string // Literal English rendering of the phrase
	Tag          string // Root group tag
	AudioFile    string // Path to the phrase audio, empty without audio
}

// GeneratorOptions configures the dataset export
type GeneratorOptions struct {
	OutputPath     string // Output CSV file path
	IncludeHeaders bool   // Include CSV headers
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "russian_verbs_1000.csv",
		IncludeHeaders: true,
	}
}

// Generator collects cards and writes the dataset and deck files
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
	}
}

// AddCard adds a card to the collection
func (g *Generator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// GetCards returns a slice of all cards for modification
func (g *Generator) GetCards() []Card {
	return g.cards
}

// GenerateCSV writes the dataset file, one row per card in card order
func (g *Generator) GenerateCSV() error {
	if dir := filepath.Dir(g.options.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	if err := g.WriteCSV(file); err != nil {
		return err
	}

	return file.Close()
}

// WriteCSV writes the dataset to w
func (g *Generator) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if g.options.IncludeHeaders {
		if err := writer.Write(CSVHeader); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range g.cards {
		record := []string{
			card.Tag,
			card.Headword,
			card.Gloss,
			card.PhraseSource,
			card.PhraseGloss,
		}

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ReadCSV reads a dataset file written by GenerateCSV, possibly hand-edited.
// Headwords must be unique because each one becomes a note GUID.
func ReadCSV(path string) ([]Card, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(CSVHeader)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalidDataset, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	for i, name := range CSVHeader {
		// Spreadsheet tools like to prepend a byte order mark
		if strings.TrimPrefix(strings.TrimSpace(header[i]), "\ufeff") != name {
			return nil, fmt.Errorf("%w: column %d is %q, expected %q", ErrInvalidDataset, i+1, header[i], name)
		}
	}

	var cards []Card
	seen := make(map[string]int)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
		}

		card := Card{
			Tag:          strings.TrimSpace(record[0]),
			Headword:     strings.TrimSpace(record[1]),
			Gloss:        strings.TrimSpace(record[2]),
			PhraseSource: strings.TrimSpace(record[3]),
			PhraseGloss:  strings.TrimSpace(record[4]),
		}
		line, _ := reader.FieldPos(0)
		if card.Headword == "" {
			return nil, fmt.Errorf("%w: line %d has an empty headword", ErrInvalidDataset, line)
		}
		if first, dup := seen[card.Headword]; dup {
			return nil, fmt.Errorf("%w: line %d repeats headword %q from line %d", ErrInvalidDataset, line, card.Headword, first)
		}
		seen[card.Headword] = line
		cards = append(cards, card)
	}

	return cards, nil
}

// GenerateAPKG creates a proper .apkg file for Anki import
func (g *Generator) GenerateAPKG(outputPath, deckName string) error {
	apkgGen := NewAPKGGenerator(deckName)

	for _, card := range g.cards {
		apkgGen.AddCard(card)
	}

	return apkgGen.GenerateAPKG(outputPath)
}

// formatAudioField formats the audio file reference for Anki
func formatAudioField(audioFile string) string {
	if audioFile == "" {
		return ""
	}

	// Anki audio format: [sound:filename.mp3]
	return fmt.Sprintf("[sound:%s]", filepath.Base(audioFile))
}

// Stats returns statistics about the card collection
func (g *Generator) Stats() (totalCards, withAudio int) {
	totalCards = len(g.cards)

	for _, card := range g.cards {
		if card.AudioFile != "" {
			withAudio++
		}
	}

	return
}
