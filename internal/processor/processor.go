package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/schollz/progressbar/v3"

	"codeberg.org/snonux/ruverbs/internal"
	"codeberg.org/snonux/ruverbs/internal/anki"
	"codeberg.org/snonux/ruverbs/internal/archive"
	"codeberg.org/snonux/ruverbs/internal/audio"
	"codeberg.org/snonux/ruverbs/internal/cli"
	"codeberg.org/snonux/ruverbs/internal/wordgen"
)

// Result summarizes a finished run
type Result struct {
	CSVPath      string
	DeckPath     string
	MediaDir     string
	Backend      string
	Requested    int // rows asked for with --count
	Rows         int // rows written
	WithAudio    int
	SkippedAudio int
}

// Option configures a Processor
type Option func(*Processor)

// WithAudioProvider replaces the provider built from the flags
func WithAudioProvider(p audio.Provider) Option {
	return func(proc *Processor) {
		proc.provider = p
	}
}

// WithOutput sets where the preview table and summary are printed
func WithOutput(w io.Writer) Option {
	return func(proc *Processor) {
		proc.out = w
	}
}

// WithProgressOutput sets where the audio progress bar is drawn
func WithProgressOutput(w io.Writer) Option {
	return func(proc *Processor) {
		proc.progress = w
	}
}

// Processor handles one deck build
type Processor struct {
	flags    *cli.Flags
	provider audio.Provider
	out      io.Writer
	progress io.Writer
}

// NewProcessor creates a new deck processor
func NewProcessor(flags *cli.Flags, opts ...Option) *Processor {
	p := &Processor{
		flags:    flags,
		out:      os.Stdout,
		progress: os.Stderr,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// MediaDir returns the audio directory that belongs to a deck path
func MediaDir(deckPath string) string {
	stem := strings.TrimSuffix(filepath.Base(deckPath), filepath.Ext(deckPath))
	return filepath.Join(filepath.Dir(deckPath), stem+"_media")
}

// Run builds the deck. The audio backend is checked before any row is
// generated so a missing dependency fails fast.
func (p *Processor) Run(ctx context.Context) (*Result, error) {
	if err := p.flags.Validate(); err != nil {
		return nil, err
	}

	provider, err := p.audioProvider()
	if err != nil {
		return nil, fmt.Errorf("audio backend %s: %w", p.flags.AudioMode(), err)
	}
	defer closeProvider(provider)

	if err := provider.IsAvailable(); err != nil {
		return nil, fmt.Errorf("audio backend %s: %w", provider.Name(), err)
	}

	cards, err := p.loadCards()
	if err != nil {
		return nil, err
	}

	if p.flags.Preview > 0 {
		p.printPreview(cards, p.flags.Preview)
	}

	result := &Result{
		CSVPath:   p.flags.CSV,
		DeckPath:  p.flags.Out,
		MediaDir:  MediaDir(p.flags.Out),
		Backend:   cli.Describe(p.flags),
		Requested: p.flags.Count,
		Rows:      len(cards),
	}

	if p.flags.Archive {
		if _, err := archive.ArchiveOutputs(result.CSVPath, result.DeckPath, result.MediaDir); err != nil {
			return nil, fmt.Errorf("failed to archive previous outputs: %w", err)
		}
	}

	gen := anki.NewGenerator(&anki.GeneratorOptions{
		OutputPath:     result.CSVPath,
		IncludeHeaders: true,
	})
	for _, card := range cards {
		gen.AddCard(card)
	}

	if err := gen.GenerateCSV(); err != nil {
		return nil, err
	}
	log.Info("wrote dataset", "path", result.CSVPath, "rows", len(cards))

	result.WithAudio, result.SkippedAudio, err = p.synthesize(ctx, provider, gen.GetCards(), result.MediaDir)
	if err != nil {
		return nil, err
	}

	if err := gen.GenerateAPKG(result.DeckPath, p.flags.DeckName); err != nil {
		return nil, fmt.Errorf("failed to write deck: %w", err)
	}

	if c, ok := provider.(*audio.CachedProvider); ok {
		hits, misses := c.Stats()
		log.Debug("audio cache", "hits", hits, "misses", misses)
	}

	p.printSummary(result)
	return result, nil
}

// audioProvider returns the injected provider or builds one from the flags
func (p *Processor) audioProvider() (audio.Provider, error) {
	if p.provider != nil {
		return p.provider, nil
	}
	return audio.NewProvider(cli.ProviderConfig(p.flags))
}

func closeProvider(provider audio.Provider) {
	if c, ok := provider.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.Warn("failed to release audio backend", "error", err)
		}
	}
}

// loadCards generates rows from the seed tables or reads them from --from-csv
func (p *Processor) loadCards() ([]anki.Card, error) {
	if p.flags.FromCSV != "" {
		cards, err := anki.ReadCSV(p.flags.FromCSV)
		if err != nil {
			return nil, err
		}
		if len(cards) > p.flags.Count {
			cards = cards[:p.flags.Count]
		}
		log.Info("loaded dataset", "path", p.flags.FromCSV, "rows", len(cards))
		return cards, nil
	}

	seeds := wordgen.DefaultSeeds()
	if p.flags.Seeds != "" {
		var err error
		if seeds, err = wordgen.LoadSeeds(p.flags.Seeds); err != nil {
			return nil, err
		}
	}
	if err := seeds.Validate(); err != nil {
		return nil, err
	}

	rows, candidates := wordgen.Generate(seeds, p.flags.Count)
	log.Debug("generated candidates", "candidates", len(candidates), "rows", len(rows))

	if len(rows) < p.flags.Count {
		log.Warn("candidate pool exhausted", "requested", p.flags.Count, "rows", len(rows))
	}

	fallback := make(map[string]bool)
	for _, c := range candidates {
		if c.TagFallback {
			fallback[c.Headword] = true
		}
	}

	cards := make([]anki.Card, len(rows))
	for i, row := range rows {
		if fallback[row.Headword] {
			log.Warn("no base entry for derivative, using fallback tag", "headword", row.Headword, "tag", row.Tag)
		}
		cards[i] = anki.Card{
			Headword:     row.Headword,
			Gloss:        row.Gloss,
			PhraseSource: row.PhraseSource,
			PhraseGloss:  row.PhraseGloss,
			Tag:          row.Tag,
		}
	}
	return cards, nil
}

// synthesize writes one audio file per card, strictly in row order, and
// records the file on the card. With the abort policy the first failure
// ends the run; with skip the card keeps an empty audio field.
func (p *Processor) synthesize(ctx context.Context, provider audio.Provider, cards []anki.Card, mediaDir string) (withAudio, skipped int, err error) {
	ext := provider.Extension()
	if ext == "" || len(cards) == 0 {
		return 0, 0, nil
	}

	if err := os.MkdirAll(mediaDir, 0755); err != nil {
		return 0, 0, fmt.Errorf("failed to create media directory: %w", err)
	}

	skip := p.flags.OnAudioError == cli.OnErrorSkip
	if skip {
		provider = audio.NewBreakerProvider(provider, uint32(max(p.flags.MaxAudioFailures, 1)))
	}

	bar := progressbar.NewOptions(len(cards),
		progressbar.OptionSetWriter(p.progress),
		progressbar.OptionSetDescription("Synthesizing audio"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
	defer bar.Finish()

	for i := range cards {
		if err := ctx.Err(); err != nil {
			return withAudio, skipped, err
		}

		card := &cards[i]
		file := filepath.Join(mediaDir, internal.MediaFileName(card.Headword, i, ext))

		wrote, err := audio.Save(ctx, provider, card.PhraseSource, file)
		if err != nil {
			if !skip || errors.Is(err, audio.ErrBackendUnavailable) {
				return withAudio, skipped, fmt.Errorf("row %d (%s): %w", i, card.Headword, err)
			}
			log.Warn("skipping audio", "row", i, "headword", card.Headword, "error", err)
			skipped++
		} else if wrote {
			card.AudioFile = file
			withAudio++
		}

		bar.Add(1)
	}

	return withAudio, skipped, nil
}

// printPreview renders the first n cards as a table
func (p *Processor) printPreview(cards []anki.Card, n int) {
	tw := table.NewWriter()
	tw.SetOutputMirror(p.out)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Tag", "Russian", "English", "Phrase", "Literal"})

	for i, card := range cards {
		if i >= n {
			break
		}
		tw.AppendRow(table.Row{i + 1, card.Tag, card.Headword, card.Gloss, card.PhraseSource, card.PhraseGloss})
	}
	if len(cards) > n {
		tw.AppendFooter(table.Row{"", "", fmt.Sprintf("… %d more", len(cards)-n)})
	}

	tw.Render()
}

// printSummary prints the resolved outputs
func (p *Processor) printSummary(r *Result) {
	csvPath, _ := filepath.Abs(r.CSVPath)
	deckPath, _ := filepath.Abs(r.DeckPath)

	fmt.Fprintf(p.out, "Wrote %s (%s rows)\n", csvPath, humanize.Comma(int64(r.Rows)))
	if r.Rows < r.Requested {
		fmt.Fprintf(p.out, "  only %d of %d requested verbs could be generated\n", r.Rows, r.Requested)
	}

	size := "unknown size"
	if info, err := os.Stat(r.DeckPath); err == nil {
		size = humanize.Bytes(uint64(info.Size()))
	}
	fmt.Fprintf(p.out, "Built deck: %s (%s)\n", deckPath, size)

	fmt.Fprintf(p.out, "Audio: %s", r.Backend)
	if r.WithAudio > 0 || r.SkippedAudio > 0 {
		fmt.Fprintf(p.out, ", %d files in %s", r.WithAudio, r.MediaDir)
	}
	if r.SkippedAudio > 0 {
		fmt.Fprintf(p.out, ", %d skipped", r.SkippedAudio)
	}
	fmt.Fprintln(p.out)
}
