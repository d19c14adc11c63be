package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/ruverbs/internal"
	"codeberg.org/snonux/ruverbs/internal/audio"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ruverbs",
		Short: "Russian Verb Anki Deck Builder",
		Long: `ruverbs builds an Anki deck of Russian verbs with literal example phrases.

It expands a seed list of base verbs into curated and prefixed derivatives,
pairs every verb with an example phrase, writes the dataset as CSV and
packages it as an .apkg deck with optional spoken audio.

Examples:
  ruverbs                              # 1000 verbs with gTTS audio
  ruverbs --no-audio                   # text-only deck
  ruverbs --espeak --count 200         # offline audio, 200 verbs
  ruverbs --from-csv russian_verbs_1000.csv   # rebuild from an edited CSV`,
		Args:          cobra.NoArgs,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.ruverbs.yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")

	// Output flags
	cmd.Flags().StringVarP(&flags.Out, "out", "o", flags.Out, "Output .apkg filename")
	cmd.Flags().StringVar(&flags.CSV, "csv", flags.CSV, "Output dataset CSV filename")
	cmd.Flags().StringVar(&flags.DeckName, "deck-name", flags.DeckName, "Deck name")
	cmd.Flags().IntVarP(&flags.Count, "count", "n", flags.Count, "Number of verbs in the deck")
	cmd.Flags().StringVar(&flags.Seeds, "seeds", "", "TOML file overriding the built-in seed tables")
	cmd.Flags().StringVar(&flags.FromCSV, "from-csv", "", "Build the deck from an existing dataset CSV instead of generating it")
	cmd.Flags().IntVar(&flags.Preview, "preview", 0, "Print the first N rows as a table")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Move outputs of a previous run into ./archive first")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI TTS models for the current API key")

	// Audio flags
	cmd.Flags().StringVar(&flags.Audio, "audio", flags.Audio, "Audio mode: "+strings.Join(audio.Modes(), ", "))
	cmd.Flags().BoolVar(&flags.NoAudio, "no-audio", false, "Disable audio generation (same as --audio none)")
	cmd.Flags().BoolVar(&flags.ESpeak, "espeak", false, "Use eSpeak NG (offline) instead of gTTS (same as --audio espeak)")
	cmd.Flags().StringVar(&flags.OnAudioError, "on-audio-error", flags.OnAudioError, "Audio failure policy: abort or skip")
	cmd.Flags().IntVar(&flags.MaxAudioFailures, "max-audio-failures", flags.MaxAudioFailures, "With --on-audio-error skip, stop calling the backend after this many consecutive failures")
	cmd.Flags().StringVar(&flags.CacheDir, "cache-dir", "", "Cache synthesized phrases in this directory (default: no cache)")

	// OpenAI flags
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	cmd.Flags().StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, ash, ballad, coral, echo, fable, onyx, nova, sage, shimmer, verse")
	cmd.Flags().Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed (0.25 to 4.0, may be ignored by gpt-4o-mini-tts)")
	cmd.Flags().StringVar(&flags.OpenAIInstruction, "openai-instruction", "", "Voice instructions for gpt-4o-mini-tts model")

	// Gemini flags
	cmd.Flags().StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini TTS model")
	cmd.Flags().StringVar(&flags.GeminiVoice, "gemini-voice", flags.GeminiVoice, "Gemini prebuilt voice name")

	// espeak-ng flags
	cmd.Flags().StringVar(&flags.ESpeakVoice, "espeak-voice", flags.ESpeakVoice, "espeak-ng voice: "+strings.Join(audio.ListVoices(), ", "))
	cmd.Flags().IntVar(&flags.ESpeakSpeed, "espeak-speed", flags.ESpeakSpeed, "espeak-ng speed in words per minute (80 to 450)")
	cmd.Flags().IntVar(&flags.ESpeakPitch, "espeak-pitch", flags.ESpeakPitch, "espeak-ng pitch (0 to 99)")
	cmd.Flags().IntVar(&flags.ESpeakAmplitude, "espeak-amplitude", flags.ESpeakAmplitude, "espeak-ng amplitude (0 to 200)")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("output.apkg", cmd.Flags().Lookup("out"))
	viper.BindPFlag("output.csv", cmd.Flags().Lookup("csv"))
	viper.BindPFlag("output.deck_name", cmd.Flags().Lookup("deck-name"))
	viper.BindPFlag("generate.count", cmd.Flags().Lookup("count"))
	viper.BindPFlag("generate.seeds", cmd.Flags().Lookup("seeds"))
	viper.BindPFlag("audio.provider", cmd.Flags().Lookup("audio"))
	viper.BindPFlag("audio.on_error", cmd.Flags().Lookup("on-audio-error"))
	viper.BindPFlag("audio.max_failures", cmd.Flags().Lookup("max-audio-failures"))
	viper.BindPFlag("audio.cache_dir", cmd.Flags().Lookup("cache-dir"))
	viper.BindPFlag("audio.openai_model", cmd.Flags().Lookup("openai-model"))
	viper.BindPFlag("audio.openai_voice", cmd.Flags().Lookup("openai-voice"))
	viper.BindPFlag("audio.openai_speed", cmd.Flags().Lookup("openai-speed"))
	viper.BindPFlag("audio.openai_instruction", cmd.Flags().Lookup("openai-instruction"))
	viper.BindPFlag("audio.gemini_model", cmd.Flags().Lookup("gemini-model"))
	viper.BindPFlag("audio.gemini_voice", cmd.Flags().Lookup("gemini-voice"))
	viper.BindPFlag("audio.espeak_voice", cmd.Flags().Lookup("espeak-voice"))
	viper.BindPFlag("audio.espeak_speed", cmd.Flags().Lookup("espeak-speed"))
	viper.BindPFlag("audio.espeak_pitch", cmd.Flags().Lookup("espeak-pitch"))
	viper.BindPFlag("audio.espeak_amplitude", cmd.Flags().Lookup("espeak-amplitude"))
}

// ApplyConfig copies config file and environment values into flags the
// user did not set on the command line
func ApplyConfig(cmd *cobra.Command, flags *Flags) {
	strs := []struct {
		flag, key string
		dst       *string
	}{
		{"out", "output.apkg", &flags.Out},
		{"csv", "output.csv", &flags.CSV},
		{"deck-name", "output.deck_name", &flags.DeckName},
		{"seeds", "generate.seeds", &flags.Seeds},
		{"audio", "audio.provider", &flags.Audio},
		{"on-audio-error", "audio.on_error", &flags.OnAudioError},
		{"cache-dir", "audio.cache_dir", &flags.CacheDir},
		{"openai-model", "audio.openai_model", &flags.OpenAIModel},
		{"openai-voice", "audio.openai_voice", &flags.OpenAIVoice},
		{"openai-instruction", "audio.openai_instruction", &flags.OpenAIInstruction},
		{"gemini-model", "audio.gemini_model", &flags.GeminiModel},
		{"gemini-voice", "audio.gemini_voice", &flags.GeminiVoice},
		{"espeak-voice", "audio.espeak_voice", &flags.ESpeakVoice},
	}
	for _, s := range strs {
		if !cmd.Flags().Changed(s.flag) && viper.IsSet(s.key) {
			*s.dst = viper.GetString(s.key)
		}
	}

	ints := []struct {
		flag, key string
		dst       *int
	}{
		{"count", "generate.count", &flags.Count},
		{"max-audio-failures", "audio.max_failures", &flags.MaxAudioFailures},
		{"espeak-speed", "audio.espeak_speed", &flags.ESpeakSpeed},
		{"espeak-pitch", "audio.espeak_pitch", &flags.ESpeakPitch},
		{"espeak-amplitude", "audio.espeak_amplitude", &flags.ESpeakAmplitude},
	}
	for _, i := range ints {
		if !cmd.Flags().Changed(i.flag) && viper.IsSet(i.key) {
			*i.dst = viper.GetInt(i.key)
		}
	}
	if !cmd.Flags().Changed("openai-speed") && viper.IsSet("audio.openai_speed") {
		flags.OpenAISpeed = viper.GetFloat64("audio.openai_speed")
	}
}

// InitConfig initializes viper configuration and the logger
func InitConfig(cfgFile string, verbose bool) {
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Error("Error getting home directory", "error", err)
			return
		}

		// Search config in home directory with name ".ruverbs" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ruverbs")
	}

	// Environment variables
	viper.SetEnvPrefix("RUVERBS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Debug("Using config file", "path", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		log.Warn("Could not read config file", "path", cfgFile, "error", err)
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	return viper.GetString("audio.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}

	return viper.GetString("audio.gemini_key")
}

// ProviderConfig builds the audio provider configuration from flags
func ProviderConfig(flags *Flags) *audio.Config {
	config := audio.DefaultProviderConfig()
	config.Provider = flags.AudioMode()
	config.OpenAIKey = GetOpenAIKey()
	config.OpenAIModel = flags.OpenAIModel
	config.OpenAIVoice = flags.OpenAIVoice
	config.OpenAISpeed = flags.OpenAISpeed
	if flags.OpenAIInstruction != "" {
		config.OpenAIInstruction = flags.OpenAIInstruction
	}
	config.GeminiKey = GetGeminiKey()
	config.GeminiModel = flags.GeminiModel
	config.GeminiVoice = flags.GeminiVoice
	config.ESpeak.Voice = flags.ESpeakVoice
	config.ESpeak.SetSpeed(flags.ESpeakSpeed)
	config.ESpeak.SetPitch(flags.ESpeakPitch)
	config.ESpeak.SetAmplitude(flags.ESpeakAmplitude)
	config.CacheDir = flags.CacheDir
	config.EnableCache = flags.CacheDir != ""

	return config
}

// Describe returns a one-line description of the audio setup for the summary
func Describe(flags *Flags) string {
	mode := flags.AudioMode()
	switch mode {
	case audio.ModeOpenAI:
		return fmt.Sprintf("%s (%s, %s)", mode, flags.OpenAIModel, flags.OpenAIVoice)
	case audio.ModeGemini:
		return fmt.Sprintf("%s (%s, %s)", mode, flags.GeminiModel, flags.GeminiVoice)
	default:
		return mode
	}
}
