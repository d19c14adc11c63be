package processor

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/ruverbs/internal/anki"
	"codeberg.org/snonux/ruverbs/internal/audio"
	"codeberg.org/snonux/ruverbs/internal/cli"
	"codeberg.org/snonux/ruverbs/internal/testutil"
)

// smallSeeds yields exactly four candidates:
// делать, говорить, сделать, поговорить
const smallSeeds = `
prefixes = ["по"]

[[base]]
tag = "дел-"
headword = "делать"
gloss = "to do"

[[base]]
tag = "говор-"
headword = "говорить"
gloss = "to speak"

[[derivatives]]
base = "делать"
forms = [{ headword = "сделать", gloss = "to do (pfv)" }]

[[templates]]
source = "Я хочу {inf}."
gloss = "I want {inf}."
`

func testFlags(t *testing.T) *cli.Flags {
	t.Helper()

	dir := t.TempDir()
	flags := cli.NewFlags()
	flags.Out = filepath.Join(dir, "deck.apkg")
	flags.CSV = filepath.Join(dir, "verbs.csv")
	flags.Seeds = testutil.WriteSeedFile(t, dir, smallSeeds)
	flags.Count = 4
	flags.NoAudio = true
	return flags
}

func newTestProcessor(flags *cli.Flags, out io.Writer, opts ...Option) *Processor {
	opts = append([]Option{WithOutput(out), WithProgressOutput(io.Discard)}, opts...)
	return NewProcessor(flags, opts...)
}

func readRows(t *testing.T, path string) []anki.Card {
	t.Helper()

	cards, err := anki.ReadCSV(path)
	require.NoError(t, err)
	return cards
}

func TestMediaDir(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "deck_media"), MediaDir(filepath.Join("out", "deck.apkg")))
	assert.Equal(t, "Russian_Verbs_1000_Literal_media", MediaDir("Russian_Verbs_1000_Literal.apkg"))
}

func TestRunWithoutAudio(t *testing.T) {
	flags := testFlags(t)
	var out bytes.Buffer

	result, err := newTestProcessor(flags, &out).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, result.Rows)
	assert.Equal(t, 4, result.Requested)
	assert.Zero(t, result.WithAudio)
	assert.Equal(t, "none", result.Backend)

	cards := readRows(t, flags.CSV)
	require.Len(t, cards, 4)
	assert.Equal(t, []string{"делать", "говорить", "сделать", "поговорить"},
		[]string{cards[0].Headword, cards[1].Headword, cards[2].Headword, cards[3].Headword})
	assert.Equal(t, "дел-", cards[2].Tag)
	assert.Equal(t, "to speak (prefixed)", cards[3].Gloss)
	assert.Equal(t, "Я хочу сделать.", cards[2].PhraseSource)

	testutil.AssertFileExists(t, flags.Out)
	testutil.AssertFileNotExists(t, result.MediaDir)

	assert.Contains(t, out.String(), "4 rows")
	assert.Contains(t, out.String(), "Built deck:")
	assert.Contains(t, out.String(), "Audio: none")
}

func TestRunDefaultSeeds(t *testing.T) {
	flags := testFlags(t)
	flags.Seeds = ""
	flags.Count = 1000

	result, err := newTestProcessor(flags, io.Discard).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1000, result.Rows)
	assert.Len(t, readRows(t, flags.CSV), 1000)
}

func TestRunPoolExhausted(t *testing.T) {
	flags := testFlags(t)
	flags.Count = 10
	var out bytes.Buffer

	result, err := newTestProcessor(flags, &out).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, result.Rows)
	assert.Equal(t, 10, result.Requested)
	assert.Contains(t, out.String(), "only 4 of 10")
}

func TestRunWithAudio(t *testing.T) {
	flags := testFlags(t)
	mock := testutil.NewMockProvider()

	result, err := newTestProcessor(flags, io.Discard, WithAudioProvider(mock)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, result.WithAudio)
	assert.Zero(t, result.SkippedAudio)
	assert.Equal(t, []string{"Я хочу делать.", "Я хочу говорить.", "Я хочу сделать.", "Я хочу поговорить."}, mock.Calls)

	for _, name := range []string{"делать_0.mp3", "говорить_1.mp3", "сделать_2.mp3", "поговорить_3.mp3"} {
		testutil.AssertFileContent(t, filepath.Join(result.MediaDir, name), testutil.GenerateAudioData())
	}
	assert.Equal(t, 4, testutil.CountFiles(t, result.MediaDir))
	testutil.AssertFileContains(t, flags.CSV, "поговорить,to speak (prefixed),Я хочу поговорить.,I want поговорить.")

	reader, err := zip.OpenReader(flags.Out)
	require.NoError(t, err)
	defer reader.Close()
	// collection, media map and four audio files
	assert.Len(t, reader.File, 6)
}

func TestRunAbortOnAudioFailure(t *testing.T) {
	flags := testFlags(t)
	mock := testutil.NewMockProvider()
	mock.Errors["Я хочу сделать."] = testutil.ErrNetwork

	_, err := newTestProcessor(flags, io.Discard, WithAudioProvider(mock)).Run(context.Background())
	require.Error(t, err)

	var synthErr *audio.SynthesisError
	assert.True(t, errors.As(err, &synthErr))
	assert.ErrorIs(t, err, testutil.ErrNetwork)
	assert.Contains(t, err.Error(), "row 2")

	assert.Equal(t, 3, mock.CallCount())
	testutil.AssertFileNotExists(t, flags.Out)
}

func TestRunSkipOnAudioFailure(t *testing.T) {
	flags := testFlags(t)
	flags.OnAudioError = cli.OnErrorSkip
	mock := testutil.NewMockProvider()
	mock.Errors["Я хочу говорить."] = testutil.ErrNetwork

	result, err := newTestProcessor(flags, io.Discard, WithAudioProvider(mock)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.WithAudio)
	assert.Equal(t, 1, result.SkippedAudio)
	assert.Equal(t, 4, mock.CallCount())
	testutil.AssertFileNotExists(t, filepath.Join(result.MediaDir, "говорить_1.mp3"))
	testutil.AssertFileExists(t, filepath.Join(result.MediaDir, "сделать_2.mp3"))
	testutil.AssertFileExists(t, flags.Out)
}

func TestRunSkipTripsBreaker(t *testing.T) {
	flags := testFlags(t)
	flags.OnAudioError = cli.OnErrorSkip
	flags.MaxAudioFailures = 2
	mock := testutil.NewMockProvider()
	mock.FailAll = testutil.ErrNetwork

	_, err := newTestProcessor(flags, io.Discard, WithAudioProvider(mock)).Run(context.Background())
	require.Error(t, err)

	assert.ErrorIs(t, err, audio.ErrBackendUnavailable)
	assert.Equal(t, 2, mock.CallCount())
	testutil.AssertFileNotExists(t, flags.Out)
}

func TestRunUnavailableProvider(t *testing.T) {
	flags := testFlags(t)
	mock := testutil.NewMockProvider()
	mock.Unavailable = errors.Join(audio.ErrMissingDependency, errors.New("espeak-ng not found"))

	_, err := newTestProcessor(flags, io.Discard, WithAudioProvider(mock)).Run(context.Background())
	require.Error(t, err)

	assert.ErrorIs(t, err, audio.ErrMissingDependency)
	assert.Zero(t, mock.CallCount())
	testutil.AssertFileNotExists(t, flags.CSV)
	testutil.AssertFileNotExists(t, flags.Out)
}

func TestRunCancelled(t *testing.T) {
	flags := testFlags(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestProcessor(flags, io.Discard, WithAudioProvider(testutil.NewMockProvider())).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunPreview(t *testing.T) {
	flags := testFlags(t)
	flags.Preview = 2
	var out bytes.Buffer

	_, err := newTestProcessor(flags, &out).Run(context.Background())
	require.NoError(t, err)

	preview := out.String()
	assert.Contains(t, preview, "делать")
	assert.Contains(t, preview, "говорить")
	assert.Contains(t, strings.ToLower(preview), "2 more")

	table := preview[:strings.Index(preview, "Wrote")]
	assert.NotContains(t, table, "поговорить")
}

func TestRunFromCSV(t *testing.T) {
	flags := testFlags(t)
	_, err := newTestProcessor(flags, io.Discard).Run(context.Background())
	require.NoError(t, err)

	rebuild := testFlags(t)
	rebuild.Seeds = ""
	rebuild.FromCSV = flags.CSV
	rebuild.Count = 3

	result, err := newTestProcessor(rebuild, io.Discard).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Rows)
	cards := readRows(t, rebuild.CSV)
	require.Len(t, cards, 3)
	assert.Equal(t, readRows(t, flags.CSV)[:3], cards)
}

func TestRunFromCSVDuplicateHeadword(t *testing.T) {
	flags := testFlags(t)
	dataset := filepath.Join(t.TempDir(), "edited.csv")
	testutil.CreateTestFile(t, dataset, []byte("root_tag,russian,english_gloss,phrase_ru,literal_en\n"+
		"дел-,делать,to do,Я хочу делать.,I want делать.\n"+
		"дел-,делать,to make,Он может делать.,He can делать.\n"))
	flags.FromCSV = dataset

	_, err := newTestProcessor(flags, io.Discard).Run(context.Background())
	require.ErrorIs(t, err, anki.ErrInvalidDataset)
	assert.Contains(t, err.Error(), "делать")

	testutil.AssertFileNotExists(t, flags.CSV)
	testutil.AssertFileNotExists(t, flags.Out)
}

func TestRunArchive(t *testing.T) {
	flags := testFlags(t)
	flags.Archive = true
	dir := filepath.Dir(flags.Out)

	_, err := newTestProcessor(flags, io.Discard).Run(context.Background())
	require.NoError(t, err)
	testutil.AssertFileNotExists(t, filepath.Join(dir, "archive"))

	_, err = newTestProcessor(flags, io.Discard).Run(context.Background())
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "archive"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	testutil.AssertFileExists(t, flags.CSV)
	testutil.AssertFileExists(t, flags.Out)
}

func TestRunInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		modify func(t *testing.T, f *cli.Flags)
	}{
		{
			name:   "zero count",
			modify: func(t *testing.T, f *cli.Flags) { f.Count = 0 },
		},
		{
			name: "unknown audio mode",
			modify: func(t *testing.T, f *cli.Flags) {
				f.NoAudio = false
				f.Audio = "festival"
			},
		},
		{
			name:   "missing seed file",
			modify: func(t *testing.T, f *cli.Flags) { f.Seeds = filepath.Join(t.TempDir(), "missing.toml") },
		},
		{
			name: "template without slot",
			modify: func(t *testing.T, f *cli.Flags) {
				f.Seeds = testutil.WriteSeedFile(t, t.TempDir(), "[[templates]]\nsource = \"Привет\"\ngloss = \"Hello\"\n")
			},
		},
		{
			name:   "missing dataset",
			modify: func(t *testing.T, f *cli.Flags) { f.FromCSV = filepath.Join(t.TempDir(), "missing.csv") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := testFlags(t)
			tt.modify(t, flags)

			_, err := newTestProcessor(flags, io.Discard).Run(context.Background())
			assert.Error(t, err)
			testutil.AssertFileNotExists(t, flags.Out)
		})
	}
}
