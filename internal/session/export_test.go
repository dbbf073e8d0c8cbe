package session

import (
	"strings"
	"testing"
	"time"

	"github.com/instylo/companion/internal/attach"
)

func TestExportToMarkdown_BasicSession(t *testing.T) {
	sess := &Session{
		ID:        "20240115-103000-a1b2c3",
		Name:      "Community Chat",
		Provider:  "gemini",
		Model:     "gemini-2.5-flash",
		Tone:      "friendly",
		CreatedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	}

	messages := []Message{
		{Role: RoleAssistant, Text: "Hello! How can I help?"},
		{Role: RoleUser, Text: "Tell me about community gardens."},
	}
	facts := []string{"User's name is Sam", "User is interested in gardening"}

	result := ExportToMarkdown(sess, messages, facts)

	if !strings.Contains(result, "# Conversation: Community Chat") {
		t.Error("expected conversation title in output")
	}
	if !strings.Contains(result, "| **Provider** | gemini |") {
		t.Error("expected provider in setup table")
	}
	if !strings.Contains(result, "| **Model** | gemini-2.5-flash |") {
		t.Error("expected model in setup table")
	}
	if !strings.Contains(result, "| **Tone** | friendly |") {
		t.Error("expected tone in setup table")
	}
	if !strings.Contains(result, "| **Created** | 2024-01-15 10:30 UTC |") {
		t.Error("expected creation time in setup table")
	}
	if !strings.Contains(result, "- User's name is Sam") {
		t.Error("expected remembered facts in output")
	}
	if !strings.Contains(result, "### Assistant") || !strings.Contains(result, "### User") {
		t.Error("expected conversation sections")
	}
	if !strings.Contains(result, "Tell me about community gardens.") {
		t.Error("expected user message text")
	}
}

func TestExportToMarkdown_UnnamedSessionUsesShortID(t *testing.T) {
	sess := &Session{
		ID:       "20240115-143052-a1b2c3",
		Provider: "gemini",
		Model:    "gemini-2.5-flash",
	}

	result := ExportToMarkdown(sess, nil, nil)

	if !strings.Contains(result, "# Conversation: 240115-1430") {
		t.Errorf("expected short ID as title, got:\n%s", result)
	}
	if strings.Contains(result, "<summary>Remembered</summary>") {
		t.Error("expected no remembered section without facts")
	}
}

func TestExportToMarkdown_Attachments(t *testing.T) {
	sess := &Session{
		ID:       "20240115-143052-a1b2c3",
		Provider: "gemini",
		Model:    "gemini-2.5-flash",
	}
	messages := []Message{
		{
			Role: RoleUser,
			Text: "What is in this picture?",
			Files: []attach.UploadedFile{
				{Name: "photo.png", Type: "image/png", IsImage: true},
				{Name: "notes.txt", Type: "text/plain"},
			},
		},
	}

	result := ExportToMarkdown(sess, messages, nil)

	if !strings.Contains(result, "- `photo.png` (image)") {
		t.Error("expected image attachment listed")
	}
	if !strings.Contains(result, "- `notes.txt` (text/plain)") {
		t.Error("expected text attachment listed with type")
	}
}

func TestExportToMarkdown_EscapesTableCells(t *testing.T) {
	sess := &Session{
		ID:       "20240115-143052-a1b2c3",
		Name:     "pipes | and\nnewlines",
		Provider: "gemini",
		Model:    "gemini-2.5-flash",
	}

	result := ExportToMarkdown(sess, nil, nil)

	if !strings.Contains(result, "pipes \\| and newlines") {
		t.Errorf("expected escaped title, got:\n%s", result)
	}
}

func TestExportToText(t *testing.T) {
	sess := &Session{
		ID:        "20240115-143052-a1b2c3",
		Name:      "Morning Chat",
		UpdatedAt: time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC),
	}
	messages := []Message{
		{Role: RoleAssistant, Text: "Hello!", CreatedAt: time.Date(2024, 1, 15, 14, 25, 3, 0, time.UTC)},
		{Role: RoleUser, Text: "Hi there", CreatedAt: time.Date(2024, 1, 15, 14, 25, 30, 0, time.UTC)},
	}

	result := ExportToText(sess, messages)

	if !strings.Contains(result, "Conversation: Morning Chat") {
		t.Error("expected title line")
	}
	if !strings.Contains(result, "[14:25:03] Assistant:\nHello!") {
		t.Errorf("expected assistant block, got:\n%s", result)
	}
	if !strings.Contains(result, "[14:25:30] You:\nHi there") {
		t.Errorf("expected user block, got:\n%s", result)
	}
}
