package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/instylo/companion/internal/session"
	"github.com/spf13/cobra"
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect and edit what the assistant remembers",
	Long: `Manage the remembered facts attached to the current conversation.

Examples:
  companion memory list
  companion memory add "Prefers small group events"
  companion memory edit 2 "User is interested in chess, hiking"
  companion memory remove 2
  companion memory clear`,
	RunE: runMemoryList, // Default to list
}

var memoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List remembered facts",
	RunE:  runMemoryList,
}

var memoryAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a fact",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMemoryAdd,
}

var memoryEditCmd = &cobra.Command{
	Use:   "edit <number> <text>",
	Short: "Rewrite a fact",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runMemoryEdit,
}

var memoryRemoveCmd = &cobra.Command{
	Use:   "remove <number>",
	Short: "Remove a fact",
	Args:  cobra.ExactArgs(1),
	RunE:  runMemoryRemove,
}

var memoryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget everything",
	RunE:  runMemoryClear,
}

func init() {
	memoryCmd.AddCommand(memoryListCmd)
	memoryCmd.AddCommand(memoryAddCmd)
	memoryCmd.AddCommand(memoryEditCmd)
	memoryCmd.AddCommand(memoryRemoveCmd)
	memoryCmd.AddCommand(memoryClearCmd)
	rootCmd.AddCommand(memoryCmd)
}

// currentFacts loads the current session and its facts.
func currentFacts(ctx context.Context, store session.Store) (*session.Session, []string, error) {
	sess, err := store.GetCurrent(ctx)
	if err != nil {
		return nil, nil, err
	}
	if sess == nil {
		return nil, nil, fmt.Errorf("no current conversation; start one with 'companion chat'")
	}
	facts, err := store.GetFacts(ctx, sess.ID)
	if err != nil {
		return nil, nil, err
	}
	return sess, facts, nil
}

func runMemoryList(cmd *cobra.Command, args []string) error {
	store, err := getSessionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	_, facts, err := currentFacts(cmd.Context(), store)
	if err != nil {
		return err
	}
	if len(facts) == 0 {
		fmt.Println("Nothing remembered yet.")
		return nil
	}
	for i, f := range facts {
		fmt.Printf("%d. %s\n", i+1, f)
	}
	return nil
}

func runMemoryAdd(cmd *cobra.Command, args []string) error {
	store, err := getSessionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	sess, facts, err := currentFacts(ctx, store)
	if err != nil {
		return err
	}
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("fact text is empty")
	}
	facts = append(facts, text)
	if err := store.ReplaceFacts(ctx, sess.ID, facts); err != nil {
		return err
	}
	fmt.Printf("Remembered: %s\n", text)
	return nil
}

func runMemoryEdit(cmd *cobra.Command, args []string) error {
	store, err := getSessionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	sess, facts, err := currentFacts(ctx, store)
	if err != nil {
		return err
	}
	i, err := factIndex(args[0], len(facts))
	if err != nil {
		return err
	}
	text := strings.TrimSpace(strings.Join(args[1:], " "))
	if text == "" {
		facts = append(facts[:i], facts[i+1:]...)
	} else {
		facts[i] = text
	}
	if err := store.ReplaceFacts(ctx, sess.ID, facts); err != nil {
		return err
	}
	fmt.Println("Updated.")
	return nil
}

func runMemoryRemove(cmd *cobra.Command, args []string) error {
	store, err := getSessionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	sess, facts, err := currentFacts(ctx, store)
	if err != nil {
		return err
	}
	i, err := factIndex(args[0], len(facts))
	if err != nil {
		return err
	}
	removed := facts[i]
	facts = append(facts[:i], facts[i+1:]...)
	if err := store.ReplaceFacts(ctx, sess.ID, facts); err != nil {
		return err
	}
	fmt.Printf("Forgot: %s\n", removed)
	return nil
}

func runMemoryClear(cmd *cobra.Command, args []string) error {
	store, err := getSessionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	sess, _, err := currentFacts(ctx, store)
	if err != nil {
		return err
	}
	if err := store.ReplaceFacts(ctx, sess.ID, nil); err != nil {
		return err
	}
	fmt.Println("Memory cleared.")
	return nil
}

// factIndex parses a 1-based fact number.
func factIndex(arg string, n int) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil || i < 1 || i > n {
		return 0, fmt.Errorf("no fact numbered %q (have %d)", arg, n)
	}
	return i - 1, nil
}
