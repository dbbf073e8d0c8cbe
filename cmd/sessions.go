package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/instylo/companion/internal/session"
	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage stored conversations",
	Long: `List, search, show, delete, and export stored conversations.

Examples:
  companion sessions                       # List recent conversations
  companion sessions search "gardening"
  companion sessions show <id>
  companion sessions delete <id>
  companion sessions export <id> [path.md]`,
	RunE: runSessionsList, // Default to list
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations",
	RunE:  runSessionsList,
}

var sessionsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search conversations",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSessionsSearch,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show conversation details",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

var sessionsExportCmd = &cobra.Command{
	Use:   "export <id> [path]",
	Short: "Export a conversation as markdown or plain text",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runSessionsExport,
}

var sessionsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all conversations (requires confirmation)",
	Long: `Delete the sessions database entirely. This cannot be undone.

You must type 'yes' to confirm.`,
	RunE: runSessionsReset,
}

// Flags
var (
	sessionsLimit int
	sessionsJSON  bool
)

func init() {
	sessionsListCmd.Flags().IntVar(&sessionsLimit, "limit", 20, "Maximum number of conversations to list")
	sessionsShowCmd.Flags().BoolVar(&sessionsJSON, "json", false, "Output as JSON")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsSearchCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsExportCmd)
	sessionsCmd.AddCommand(sessionsResetCmd)

	rootCmd.AddCommand(sessionsCmd)
}

func getSessionStore() (session.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if !cfg.Sessions.Enabled {
		return nil, fmt.Errorf("session storage is disabled in config")
	}

	return session.NewStore(session.Config{
		Enabled:    cfg.Sessions.Enabled,
		MaxAgeDays: cfg.Sessions.MaxAgeDays,
		MaxCount:   cfg.Sessions.MaxCount,
	})
}

// resolveSession finds a session by full or short ID.
func resolveSession(ctx context.Context, store session.Store, id string) (*session.Session, error) {
	sess, err := store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if sess != nil {
		return sess, nil
	}

	// Try short-ID prefix match against recent sessions
	prefix := strings.TrimSuffix(session.ExpandShortID(id), "%")
	summaries, err := store.List(ctx, session.ListOptions{Limit: 200})
	if err != nil {
		return nil, err
	}
	var match *session.SessionSummary
	for i := range summaries {
		if strings.HasPrefix(summaries[i].ID, prefix) {
			if match != nil {
				return nil, fmt.Errorf("id '%s' is ambiguous", id)
			}
			match = &summaries[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("conversation '%s' not found", id)
	}
	return store.Get(ctx, match.ID)
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	store, err := getSessionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	summaries, err := store.List(ctx, session.ListOptions{
		Limit: sessionsLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}

	if len(summaries) == 0 {
		fmt.Println("No conversations found.")
		return nil
	}

	fmt.Printf("%-13s %-14s %-10s %-12s %s\n", "ID", "Tone", "Messages", "Updated", "Name")
	fmt.Println(strings.Repeat("-", 70))

	for _, s := range summaries {
		name := s.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		fmt.Printf("%-13s %-14s %-10d %-12s %s\n",
			session.ShortID(s.ID), s.Tone, s.MessageCount,
			formatRelativeTime(s.UpdatedAt), name)
	}

	return nil
}

func runSessionsSearch(cmd *cobra.Command, args []string) error {
	store, err := getSessionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	query := strings.Join(args, " ")
	results, err := store.Search(cmd.Context(), query, 20)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Printf("No results found for '%s'\n", query)
		return nil
	}

	fmt.Printf("Found %d matches for '%s':\n\n", len(results), query)
	for _, r := range results {
		name := r.SessionName
		if name == "" {
			name = session.ShortID(r.SessionID)
		}
		fmt.Printf("**%s**\n", name)
		fmt.Printf("  %s\n\n", r.Snippet)
	}

	return nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	store, err := getSessionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	sess, err := resolveSession(ctx, store, args[0])
	if err != nil {
		return err
	}

	messages, err := store.GetMessages(ctx, sess.ID, 0, 0)
	if err != nil {
		return fmt.Errorf("failed to get messages: %w", err)
	}
	facts, err := store.GetFacts(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("failed to get facts: %w", err)
	}

	if sessionsJSON {
		data := struct {
			Session  *session.Session  `json:"session"`
			Messages []session.Message `json:"messages"`
			Memory   []string          `json:"memory"`
		}{
			Session:  sess,
			Messages: messages,
			Memory:   facts,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}

	fmt.Printf("Conversation: %s\n", sess.ID)
	if sess.Name != "" {
		fmt.Printf("Name: %s\n", sess.Name)
	}
	fmt.Printf("Model: %s\n", sess.Model)
	fmt.Printf("Tone: %s\n", sess.Tone)
	fmt.Printf("Created: %s\n", sess.CreatedAt.Format(time.RFC3339))
	fmt.Printf("Updated: %s\n", sess.UpdatedAt.Format(time.RFC3339))
	fmt.Printf("Messages: %d\n", len(messages))
	if len(facts) > 0 {
		fmt.Println("Remembered:")
		for _, f := range facts {
			fmt.Printf("  - %s\n", f)
		}
	}
	fmt.Println()

	for _, msg := range messages {
		role := "🤖"
		if msg.Role == session.RoleUser {
			role = "❯"
		}
		content := msg.Text
		if len(content) > 200 {
			content = content[:197] + "..."
		}
		fmt.Printf("%s %s\n\n", role, content)
	}

	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	store, err := getSessionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	sess, err := resolveSession(ctx, store, args[0])
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}

	fmt.Printf("Deleted conversation: %s\n", sess.ID)
	return nil
}

func runSessionsExport(cmd *cobra.Command, args []string) error {
	store, err := getSessionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	sess, err := resolveSession(ctx, store, args[0])
	if err != nil {
		return err
	}

	messages, err := store.GetMessages(ctx, sess.ID, 0, 0)
	if err != nil {
		return fmt.Errorf("failed to get messages: %w", err)
	}
	facts, err := store.GetFacts(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("failed to get facts: %w", err)
	}

	var outputPath string
	if len(args) > 1 {
		outputPath = args[1]
	} else {
		name := sess.Name
		if name == "" {
			name = session.ShortID(sess.ID)
		}
		outputPath = fmt.Sprintf("%s.md", name)
	}

	var content string
	if strings.HasSuffix(outputPath, ".txt") {
		content = session.ExportToText(sess, messages)
	} else {
		content = session.ExportToMarkdown(sess, messages, facts)
	}

	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	fmt.Printf("Exported %d messages to %s\n", len(messages), outputPath)
	return nil
}

// formatRelativeTime returns a human-readable relative time string
func formatRelativeTime(t time.Time) string {
	dur := time.Since(t)
	switch {
	case dur < time.Minute:
		return "just now"
	case dur < time.Hour:
		return fmt.Sprintf("%dm ago", int(dur.Minutes()))
	case dur < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(dur.Hours()))
	case dur < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(dur.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

func runSessionsReset(cmd *cobra.Command, args []string) error {
	dbPath, err := session.GetDBPath()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No sessions database found.")
		return nil
	}

	// Require confirmation
	fmt.Printf("This will delete ALL conversations at:\n  %s\n\n", dbPath)
	fmt.Print("Type 'yes' to confirm: ")

	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if response != "yes" {
		fmt.Println("Aborted.")
		return nil
	}

	// Delete the database file and WAL files
	for _, f := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete %s: %w", f, err)
		}
	}

	fmt.Println("Sessions database deleted.")
	return nil
}
