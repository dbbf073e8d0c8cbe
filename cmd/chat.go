package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/instylo/companion/internal/assistant"
	"github.com/instylo/companion/internal/config"
	"github.com/instylo/companion/internal/observability"
	"github.com/instylo/companion/internal/session"
	"github.com/instylo/companion/internal/tone"
	"github.com/instylo/companion/internal/ui"
	"github.com/instylo/companion/internal/weather"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const renderWidth = 100

var resumeFlag bool

func init() {
	chatCmd.Flags().BoolVarP(&resumeFlag, "resume", "r", false, "Resume the most recent conversation")
	rootCmd.AddCommand(chatCmd)
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runChat(cmd, cfg)
	},
}

// chatInput wraps liner with persistent history.
type chatInput struct {
	line        *liner.State
	historyFile string
}

func newChatInput() *chatInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	historyFile := ""
	if configDir, err := os.UserConfigDir(); err == nil {
		historyFile = filepath.Join(configDir, "companion", "chat_history")
	}

	in := &chatInput{line: line, historyFile: historyFile}
	if in.historyFile != "" {
		if f, err := os.Open(in.historyFile); err == nil {
			in.line.ReadHistory(f)
			f.Close()
		}
	}
	return in
}

func (c *chatInput) Read(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

func (c *chatInput) Close() {
	if c.historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(c.historyFile), 0755); err == nil {
			if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
				c.line.WriteHistory(f)
				f.Close()
			}
		}
	}
	c.line.Close()
}

func runChat(cmd *cobra.Command, cfg *config.Config) error {
	provider, err := newProvider(cmd, cfg)
	if err != nil {
		return err
	}
	t, err := resolveTone(cfg)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := assistant.New(provider, assistant.Options{
		Tone:   t,
		Store:  store,
		Logger: observability.Logger(),
	})

	ctx := cmd.Context()
	if resumeFlag {
		current, err := store.GetCurrent(ctx)
		if err != nil {
			return err
		}
		if current == nil {
			fmt.Println(ui.MutedStyle.Render("No conversation to resume; starting a new one."))
		} else if err := svc.ResumeSession(ctx, current); err != nil {
			return err
		}
	}
	if svc.Session() == nil {
		if err := svc.StartSession(ctx, cfg.Gemini.Model); err != nil {
			return err
		}
	}

	printChatHeader(ctx, cfg, svc)

	input := newChatInput()
	defer input.Close()

	// Ctrl+C during generation cancels the request instead of killing the
	// process.
	var cancelMu sync.Mutex
	var cancelCurrent context.CancelFunc
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		for range sigChan {
			cancelMu.Lock()
			if cancelCurrent != nil {
				cancelCurrent()
				cancelCurrent = nil
				fmt.Fprintln(os.Stderr, "\n"+ui.MutedStyle.Render("[cancelled]"))
			}
			cancelMu.Unlock()
		}
	}()

	for {
		line, err := input.Read(ui.PromptStyle.Render("you> "))
		if err != nil {
			// Ctrl+C at the prompt or EOF ends the conversation
			if err == liner.ErrPromptAborted {
				fmt.Println()
				return nil
			}
			fmt.Println()
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" && len(svc.Files().Pending()) == 0 {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := handleSlashCommand(ctx, line, svc, input)
			if err != nil {
				fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render("error: ")+err.Error())
			}
			if quit {
				return nil
			}
			continue
		}
		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			return nil
		}

		turnCtx, cancel := context.WithCancel(ctx)
		cancelMu.Lock()
		cancelCurrent = cancel
		cancelMu.Unlock()

		reply, err := svc.Send(turnCtx, line)

		cancelMu.Lock()
		cancelCurrent = nil
		cancelMu.Unlock()
		cancel()

		if err != nil {
			if errors.Is(err, context.Canceled) {
				continue
			}
			fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render("error: ")+err.Error())
			continue
		}

		fmt.Println()
		fmt.Println(ui.RenderMarkdown(reply, renderWidth))
		printBadge(svc)
	}
}

// printChatHeader shows the banner, the optional weather line, and the
// seeded greeting.
func printChatHeader(ctx context.Context, cfg *config.Config, svc *assistant.Service) {
	fmt.Println(ui.HeaderStyle.Render("Instylo Companion"))

	if cfg.Weather.APIKey != "" && cfg.Weather.Location != "" {
		wctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if cur, err := weather.NewClient(cfg.Weather.APIKey).Current(wctx, cfg.Weather.Location); err == nil {
			fmt.Println(ui.MutedStyle.Render(cur.String()))
		} else {
			observability.Logger().Debug("weather fetch failed", "error", err)
		}
	}

	fmt.Println()
	msgs := svc.Messages()
	if len(msgs) > 0 {
		fmt.Println(ui.RenderMarkdown(msgs[0].Text, renderWidth))
	}
	fmt.Println(ui.MutedStyle.Render("Type /help for commands, /quit to leave."))
	fmt.Println()
}

// printBadge shows the context line under each reply: tone, known name,
// remembered fact count.
func printBadge(svc *assistant.Service) {
	parts := []string{"tone: " + string(svc.Tone())}
	if info := svc.UserInfo(); info.Name != "" {
		parts = append(parts, "name: "+info.Name)
	}
	if n := len(svc.Memory()); n > 0 {
		parts = append(parts, fmt.Sprintf("remembered: %d", n))
	}
	fmt.Println(ui.BadgeStyle.Render(strings.Join(parts, " · ")))
	fmt.Println()
}

func handleSlashCommand(ctx context.Context, line string, svc *assistant.Service, input *chatInput) (quit bool, err error) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/help":
		printSlashHelp()
	case "/tone":
		if len(args) == 0 {
			fmt.Printf("Current tone: %s (available: %s)\n", svc.Tone(), strings.Join(tone.Names(), ", "))
			return false, nil
		}
		t, err := tone.Parse(args[0])
		if err != nil {
			return false, err
		}
		svc.SetTone(ctx, t)
		fmt.Println(ui.SuccessStyle.Render("Tone set to " + string(t)))
	case "/memory":
		points := svc.Memory()
		if len(points) == 0 {
			fmt.Println(ui.MutedStyle.Render("Nothing remembered yet."))
			return false, nil
		}
		for i, p := range points {
			fmt.Printf("%s %s\n", ui.MutedStyle.Render(fmt.Sprintf("%d.", i+1)), p)
		}
	case "/attach":
		if len(args) == 0 {
			return false, errors.New("usage: /attach <path> [path...]")
		}
		svc.Files().Add(args...)
		svc.Files().Wait()
		for _, f := range svc.Files().Pending() {
			fmt.Printf("%s %s (%s)\n", ui.SuccessStyle.Render("attached"), f.Name, f.ID)
		}
	case "/files":
		pending := svc.Files().Pending()
		if len(pending) == 0 {
			fmt.Println(ui.MutedStyle.Render("No pending attachments."))
			return false, nil
		}
		for _, f := range pending {
			kind := f.Type
			if f.IsImage {
				kind = "image"
			}
			fmt.Printf("%s  %s (%s)\n", ui.MutedStyle.Render(f.ID), f.Name, kind)
		}
	case "/unattach":
		if len(args) == 0 {
			return false, errors.New("usage: /unattach <id>")
		}
		if !svc.Files().Remove(args[0]) {
			return false, fmt.Errorf("no pending attachment with id %s", args[0])
		}
		fmt.Println(ui.SuccessStyle.Render("Removed."))
	case "/clear":
		confirm, err := input.Read("Clear the conversation and memory? [y/N] ")
		if err != nil {
			return false, nil
		}
		if !strings.EqualFold(strings.TrimSpace(confirm), "y") {
			fmt.Println(ui.MutedStyle.Render("Kept."))
			return false, nil
		}
		if err := svc.Reset(ctx); err != nil {
			return false, err
		}
		fmt.Println(ui.SuccessStyle.Render("Conversation cleared."))
		fmt.Println()
		fmt.Println(ui.RenderMarkdown(svc.Messages()[0].Text, renderWidth))
	case "/export":
		path := exportFileName(svc)
		if len(args) > 0 {
			path = args[0]
		}
		if err := exportConversation(ctx, svc, path); err != nil {
			return false, err
		}
		fmt.Println(ui.SuccessStyle.Render("Exported to " + path))
	case "/info":
		printConversationInfo(svc)
	case "/quit", "/exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %s (try /help)", cmd)
	}
	return false, nil
}

func printSlashHelp() {
	help := [][2]string{
		{"/tone [name]", "show or change the reply tone"},
		{"/memory", "list remembered facts"},
		{"/attach <path...>", "attach files to the next message"},
		{"/files", "list pending attachments"},
		{"/unattach <id>", "drop a pending attachment"},
		{"/clear", "reset the conversation and memory"},
		{"/export [path]", "write the transcript to a file"},
		{"/info", "conversation details"},
		{"/quit", "leave the chat"},
	}
	for _, h := range help {
		fmt.Printf("  %s %s\n", ui.BoldStyle.Render(fmt.Sprintf("%-20s", h[0])), ui.MutedStyle.Render(h[1]))
	}
}

func printConversationInfo(svc *assistant.Service) {
	if sess := svc.Session(); sess != nil {
		fmt.Printf("Session:   %s\n", session.ShortID(sess.ID))
		fmt.Printf("Model:     %s\n", sess.Model)
	}
	fmt.Printf("Tone:      %s\n", svc.Tone())
	fmt.Printf("Messages:  %d\n", len(svc.Messages()))
	info := svc.UserInfo()
	if info.Name != "" {
		fmt.Printf("Your name: %s\n", info.Name)
	}
	if len(info.Interests) > 0 {
		fmt.Printf("Interests: %s\n", strings.Join(info.Interests, ", "))
	}
}

func exportFileName(svc *assistant.Service) string {
	if sess := svc.Session(); sess != nil {
		return "conversation-" + session.ShortID(sess.ID) + ".md"
	}
	return "conversation-" + strconv.FormatInt(time.Now().Unix(), 10) + ".md"
}

// exportConversation writes the live transcript as markdown or plain text
// depending on the file extension.
func exportConversation(ctx context.Context, svc *assistant.Service, path string) error {
	sess := svc.Session()
	if sess == nil {
		sess = &session.Session{
			Provider:  "gemini",
			Tone:      string(svc.Tone()),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
	}

	msgs := svc.Messages()
	stored := make([]session.Message, len(msgs))
	for i, m := range msgs {
		stored[i] = *session.FromChatMessage(sess.ID, i, m)
	}

	var content string
	if strings.HasSuffix(path, ".txt") {
		content = session.ExportToText(sess, stored)
	} else {
		content = session.ExportToMarkdown(sess, stored, svc.Memory())
	}
	return os.WriteFile(path, []byte(content), 0644)
}
