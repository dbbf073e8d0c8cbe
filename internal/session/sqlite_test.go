package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/instylo/companion/internal/attach"
	"github.com/instylo/companion/internal/chat"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(Config{
		Enabled: true,
		Path:    filepath.Join(t.TempDir(), "sessions.db"),
	})
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestSession(t *testing.T, store *SQLiteStore) *Session {
	t.Helper()
	sess := &Session{
		Provider: "gemini",
		Model:    "gemini-2.5-flash",
		Tone:     "friendly",
	}
	if err := store.Create(context.Background(), sess); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return sess
}

func TestSQLiteStoreCreateGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess := newTestSession(t, store)
	if sess.ID == "" {
		t.Fatal("expected generated session id")
	}

	loaded, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("failed to load session: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected session to exist")
	}
	if loaded.Provider != "gemini" {
		t.Errorf("expected provider gemini, got %q", loaded.Provider)
	}
	if loaded.Tone != "friendly" {
		t.Errorf("expected tone friendly, got %q", loaded.Tone)
	}

	missing, err := store.Get(ctx, "nonexistent")
	if err != nil {
		t.Fatalf("unexpected error for missing session: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing session")
	}
}

func TestSQLiteStoreCustomPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "custom", "sessions.db")

	store, err := NewSQLiteStore(Config{
		Enabled: true,
		Path:    dbPath,
	})
	if err != nil {
		t.Fatalf("failed to create sqlite store at custom path: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected database file at %s: %v", dbPath, err)
	}
}

func TestSQLiteStoreMessages(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	sess := newTestSession(t, store)

	seed := FromChatMessage(sess.ID, 0, chat.Message{
		Text:      chat.Greeting,
		IsUser:    false,
		Timestamp: time.Now(),
	})
	if err := store.AddMessage(ctx, sess.ID, seed); err != nil {
		t.Fatalf("failed to add seed message: %v", err)
	}

	user := FromChatMessage(sess.ID, 1, chat.Message{
		Text:      "Hello there",
		IsUser:    true,
		Timestamp: time.Now(),
		Files: []attach.UploadedFile{
			{ID: "abc123", Name: "notes.txt", Type: "text/plain", Content: "hi"},
		},
	})
	if err := store.AddMessage(ctx, sess.ID, user); err != nil {
		t.Fatalf("failed to add user message: %v", err)
	}

	messages, err := store.GetMessages(ctx, sess.ID, 0, 0)
	if err != nil {
		t.Fatalf("failed to get messages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != RoleAssistant {
		t.Errorf("expected first message role assistant, got %q", messages[0].Role)
	}
	if messages[1].Role != RoleUser {
		t.Errorf("expected second message role user, got %q", messages[1].Role)
	}
	if len(messages[1].Files) != 1 || messages[1].Files[0].Name != "notes.txt" {
		t.Errorf("expected attachment to round-trip, got %+v", messages[1].Files)
	}
	if len(messages[0].Files) != 0 {
		t.Errorf("expected no files on seed message, got %d", len(messages[0].Files))
	}
}

func TestSQLiteStoreReplaceMessages(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	sess := newTestSession(t, store)

	for i, text := range []string{chat.Greeting, "hi", "hello back"} {
		msg := &Message{Role: RoleUser, Text: text, Sequence: i}
		if i%2 == 0 {
			msg.Role = RoleAssistant
		}
		if err := store.AddMessage(ctx, sess.ID, msg); err != nil {
			t.Fatalf("failed to add message: %v", err)
		}
	}

	fresh := []Message{{Role: RoleAssistant, Text: chat.Greeting, Sequence: 0}}
	if err := store.ReplaceMessages(ctx, sess.ID, fresh); err != nil {
		t.Fatalf("failed to replace messages: %v", err)
	}

	messages, err := store.GetMessages(ctx, sess.ID, 0, 0)
	if err != nil {
		t.Fatalf("failed to get messages: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 message after replace, got %d", len(messages))
	}
	if messages[0].Text != chat.Greeting {
		t.Errorf("expected greeting after replace, got %q", messages[0].Text)
	}
}

func TestSQLiteStoreFacts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	sess := newTestSession(t, store)

	facts, err := store.GetFacts(ctx, sess.ID)
	if err != nil {
		t.Fatalf("failed to get facts: %v", err)
	}
	if len(facts) != 0 {
		t.Fatalf("expected no facts initially, got %d", len(facts))
	}

	want := []string{"User's name is Sam", "User is interested in hiking, baking"}
	if err := store.ReplaceFacts(ctx, sess.ID, want); err != nil {
		t.Fatalf("failed to replace facts: %v", err)
	}

	facts, err = store.GetFacts(ctx, sess.ID)
	if err != nil {
		t.Fatalf("failed to get facts: %v", err)
	}
	if len(facts) != 2 {
		t.Fatalf("expected 2 facts, got %d", len(facts))
	}
	if facts[0] != want[0] || facts[1] != want[1] {
		t.Errorf("facts order not preserved: %v", facts)
	}

	// Replacing again rewrites in place
	if err := store.ReplaceFacts(ctx, sess.ID, []string{"User's name is Sam"}); err != nil {
		t.Fatalf("failed to replace facts again: %v", err)
	}
	facts, err = store.GetFacts(ctx, sess.ID)
	if err != nil {
		t.Fatalf("failed to get facts: %v", err)
	}
	if len(facts) != 1 {
		t.Fatalf("expected 1 fact after second replace, got %d", len(facts))
	}
}

func TestSQLiteStoreDeleteCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	sess := newTestSession(t, store)

	msg := &Message{Role: RoleUser, Text: "hello", Sequence: 0}
	if err := store.AddMessage(ctx, sess.ID, msg); err != nil {
		t.Fatalf("failed to add message: %v", err)
	}
	if err := store.ReplaceFacts(ctx, sess.ID, []string{"User's name is Sam"}); err != nil {
		t.Fatalf("failed to set facts: %v", err)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("failed to delete session: %v", err)
	}

	messages, err := store.GetMessages(ctx, sess.ID, 0, 0)
	if err != nil {
		t.Fatalf("failed to get messages: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("expected messages to cascade on delete, got %d", len(messages))
	}
	facts, err := store.GetFacts(ctx, sess.ID)
	if err != nil {
		t.Fatalf("failed to get facts: %v", err)
	}
	if len(facts) != 0 {
		t.Errorf("expected facts to cascade on delete, got %d", len(facts))
	}
}

func TestSQLiteStoreListAndSearch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := newTestSession(t, store)
	second := newTestSession(t, store)
	second.Name = "gardening chat"
	if err := store.Update(ctx, second); err != nil {
		t.Fatalf("failed to update session: %v", err)
	}

	msg := &Message{Role: RoleUser, Text: "tell me about community gardening", Sequence: 0}
	if err := store.AddMessage(ctx, second.ID, msg); err != nil {
		t.Fatalf("failed to add message: %v", err)
	}

	summaries, err := store.List(ctx, ListOptions{Limit: 10})
	if err != nil {
		t.Fatalf("failed to list sessions: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(summaries))
	}
	// Most recently updated first
	if summaries[0].ID != second.ID {
		t.Errorf("expected most recent session first, got %s", summaries[0].ID)
	}
	if summaries[0].MessageCount != 1 {
		t.Errorf("expected message count 1, got %d", summaries[0].MessageCount)
	}
	_ = first

	results, err := store.Search(ctx, "gardening", 10)
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 search result, got %d", len(results))
	}
	if results[0].SessionID != second.ID {
		t.Errorf("expected hit in session %s, got %s", second.ID, results[0].SessionID)
	}
}

func TestSQLiteStoreCurrentSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	sess := newTestSession(t, store)

	current, err := store.GetCurrent(ctx)
	if err != nil {
		t.Fatalf("failed to get current: %v", err)
	}
	if current != nil {
		t.Fatal("expected no current session initially")
	}

	if err := store.SetCurrent(ctx, sess.ID); err != nil {
		t.Fatalf("failed to set current: %v", err)
	}
	current, err = store.GetCurrent(ctx)
	if err != nil {
		t.Fatalf("failed to get current: %v", err)
	}
	if current == nil || current.ID != sess.ID {
		t.Fatalf("expected current session %s, got %+v", sess.ID, current)
	}

	if err := store.ClearCurrent(ctx); err != nil {
		t.Fatalf("failed to clear current: %v", err)
	}
	current, err = store.GetCurrent(ctx)
	if err != nil {
		t.Fatalf("failed to get current: %v", err)
	}
	if current != nil {
		t.Error("expected no current session after clear")
	}
}

func TestSQLiteStoreCleanupMaxCount(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sessions.db")
	cfg := Config{Enabled: true, Path: dbPath, MaxCount: 2}

	store, err := NewSQLiteStore(cfg)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		sess := &Session{
			Provider:  "gemini",
			Model:     "gemini-2.5-flash",
			Tone:      "friendly",
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
			UpdatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}
		if err := store.Create(ctx, sess); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}
	}
	store.Close()

	// Cleanup runs on open
	store, err = NewSQLiteStore(cfg)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer store.Close()

	summaries, err := store.List(ctx, ListOptions{Limit: 10})
	if err != nil {
		t.Fatalf("failed to list sessions: %v", err)
	}
	if len(summaries) != 2 {
		t.Errorf("expected 2 sessions after cleanup, got %d", len(summaries))
	}
}
