package cmd

import (
	"fmt"
	"strings"

	"github.com/instylo/companion/internal/assistant"
	"github.com/instylo/companion/internal/observability"
	"github.com/instylo/companion/internal/session"
	"github.com/instylo/companion/internal/ui"
	"github.com/spf13/cobra"
)

var askAttach []string

func init() {
	askCmd.Flags().StringArrayVarP(&askAttach, "attach", "a", nil, "Attach a file to the question (repeatable)")
	rootCmd.AddCommand(askCmd)
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		provider, err := newProvider(cmd, cfg)
		if err != nil {
			return err
		}
		t, err := resolveTone(cfg)
		if err != nil {
			return err
		}

		// One-shot questions are not persisted
		svc := assistant.New(provider, assistant.Options{
			Tone:   t,
			Store:  &session.NoopStore{},
			Logger: observability.Logger(),
		})

		if len(askAttach) > 0 {
			svc.Files().Add(askAttach...)
		}

		reply, err := svc.Send(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Println(ui.RenderMarkdown(reply, renderWidth))
		return nil
	},
}
