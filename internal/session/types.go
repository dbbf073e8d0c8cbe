// Package session persists conversations: session metadata, the message
// transcript, and the memory facts the assistant carries between turns.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/instylo/companion/internal/attach"
	"github.com/instylo/companion/internal/chat"
)

// Role is the author of a stored message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Session is one stored conversation.
type Session struct {
	ID        string
	Name      string
	Provider  string
	Model     string
	Tone      string
	CreatedAt time.Time
	UpdatedAt time.Time
	Archived  bool
}

// Message is one stored transcript entry. Files are serialized as JSON in
// the store.
type Message struct {
	ID        int64
	SessionID string
	Role      Role
	Text      string
	Files     []attach.UploadedFile
	CreatedAt time.Time
	Sequence  int
}

// FilesJSON serializes the attachments for storage. An empty list stores
// as empty string, not "[]".
func (m *Message) FilesJSON() (string, error) {
	if len(m.Files) == 0 {
		return "", nil
	}
	data, err := json.Marshal(m.Files)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SetFilesFromJSON restores the attachments from their stored form.
func (m *Message) SetFilesFromJSON(s string) error {
	if s == "" {
		m.Files = nil
		return nil
	}
	return json.Unmarshal([]byte(s), &m.Files)
}

// FromChatMessage converts a transcript message for storage.
func FromChatMessage(sessionID string, seq int, msg chat.Message) *Message {
	role := RoleAssistant
	if msg.IsUser {
		role = RoleUser
	}
	return &Message{
		SessionID: sessionID,
		Role:      role,
		Text:      msg.Text,
		Files:     msg.Files,
		CreatedAt: msg.Timestamp,
		Sequence:  seq,
	}
}

// ToChatMessage converts a stored message back into a transcript entry.
func (m *Message) ToChatMessage() chat.Message {
	return chat.Message{
		Text:      m.Text,
		IsUser:    m.Role == RoleUser,
		Timestamp: m.CreatedAt,
		Files:     m.Files,
	}
}

// SessionSummary is the list row for a session.
type SessionSummary struct {
	ID           string
	Name         string
	Provider     string
	Model        string
	Tone         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	MessageCount int
}

// SearchResult is one full-text hit across stored messages.
type SearchResult struct {
	SessionID   string
	MessageID   int64
	SessionName string
	Snippet     string
	Provider    string
	Model       string
	CreatedAt   time.Time
}

// ListOptions filters and pages session listings.
type ListOptions struct {
	Provider string
	Archived bool
	Limit    int
	Offset   int
}

// Config controls store construction and retention cleanup.
type Config struct {
	Enabled    bool
	Path       string // Override database location (tests); empty uses the default
	MaxAgeDays int
	MaxCount   int
}

// Store is the persistence boundary for conversations.
type Store interface {
	Create(ctx context.Context, sess *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListOptions) ([]SessionSummary, error)
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)

	AddMessage(ctx context.Context, sessionID string, msg *Message) error
	GetMessages(ctx context.Context, sessionID string, limit, offset int) ([]Message, error)
	ReplaceMessages(ctx context.Context, sessionID string, messages []Message) error

	GetFacts(ctx context.Context, sessionID string) ([]string, error)
	ReplaceFacts(ctx context.Context, sessionID string, points []string) error

	SetCurrent(ctx context.Context, sessionID string) error
	GetCurrent(ctx context.Context) (*Session, error)
	ClearCurrent(ctx context.Context) error

	Close() error
}

// NewStore returns the SQLite store, or a NoopStore when persistence is
// disabled.
func NewStore(cfg Config) (Store, error) {
	if !cfg.Enabled {
		return &NoopStore{}, nil
	}
	return NewSQLiteStore(cfg)
}

// GetDBPath returns the default database location.
func GetDBPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(configDir, "companion", "sessions.db"), nil
}
