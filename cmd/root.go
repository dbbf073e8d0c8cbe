package cmd

import (
	"fmt"
	"os"

	"github.com/instylo/companion/internal/config"
	"github.com/instylo/companion/internal/llm"
	"github.com/instylo/companion/internal/observability"
	"github.com/instylo/companion/internal/session"
	"github.com/instylo/companion/internal/tone"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noSession, "no-session", false, "Disable conversation persistence")
	rootCmd.PersistentFlags().StringVar(&toneFlag, "tone", "", "Reply tone (friendly, professional, enthusiastic, simple, expert)")
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "Override the Gemini model")
}

var rootCmd = &cobra.Command{
	Use:   "companion",
	Short: "A conversational assistant for building communities and connections",
	Long: `companion is an AI chat assistant focused on community building,
friendship, and social connections. It remembers what you tell it about
yourself and carries that context across the conversation.

Examples:
  companion chat                        # interactive conversation
  companion ask "how do I meet people with similar hobbies?"
  companion ask --tone expert "what makes communities stick?"

  companion sessions list               # stored conversations
  companion memory list                 # what it remembers about you`,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		observability.SetDebug(debugFlag)
	},
}

var (
	debugFlag bool
	noSession bool
	toneFlag  string
	modelFlag string
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads the config file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.ApplyOverrides(toneFlag, modelFlag)
	return cfg, nil
}

// resolveTone parses the configured tone, falling back to the default on
// an invalid config value.
func resolveTone(cfg *config.Config) (tone.Tone, error) {
	return tone.Parse(cfg.Tone)
}

// openStore builds the session store per config and the --no-session flag.
func openStore(cfg *config.Config) (session.Store, error) {
	return session.NewStore(session.Config{
		Enabled:    cfg.Sessions.Enabled && !noSession,
		MaxAgeDays: cfg.Sessions.MaxAgeDays,
		MaxCount:   cfg.Sessions.MaxCount,
	})
}

// newProvider builds the Gemini provider from config.
func newProvider(cmd *cobra.Command, cfg *config.Config) (llm.Provider, error) {
	p, err := llm.NewGeminiProvider(cmd.Context(), cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return nil, fmt.Errorf("%w\nRun 'companion config init' to create a config file", err)
	}
	return p, nil
}
