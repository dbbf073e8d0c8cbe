package session

import (
	"fmt"
	"strings"
)

// escapeTableCell escapes special characters for markdown table cells.
func escapeTableCell(s string) string {
	// Replace pipe characters and newlines which break tables
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

// ExportToMarkdown exports a session and its messages to a pretty markdown format.
func ExportToMarkdown(sess *Session, messages []Message, facts []string) string {
	var b strings.Builder

	// Title
	title := sess.Name
	if title == "" {
		title = ShortID(sess.ID)
	}
	b.WriteString(fmt.Sprintf("# Conversation: %s\n\n", escapeTableCell(title)))

	// Setup section
	b.WriteString("## Setup\n\n")
	b.WriteString("| | |\n")
	b.WriteString("|---|---|\n")
	b.WriteString(fmt.Sprintf("| **Provider** | %s |\n", escapeTableCell(sess.Provider)))
	b.WriteString(fmt.Sprintf("| **Model** | %s |\n", escapeTableCell(sess.Model)))

	tone := sess.Tone
	if tone == "" {
		tone = "friendly"
	}
	b.WriteString(fmt.Sprintf("| **Tone** | %s |\n", escapeTableCell(tone)))
	b.WriteString(fmt.Sprintf("| **Created** | %s |\n", sess.CreatedAt.UTC().Format("2006-01-02 15:04 UTC")))
	b.WriteString("\n")

	// Remembered facts (if any)
	if len(facts) > 0 {
		b.WriteString("<details>\n")
		b.WriteString("<summary>Remembered</summary>\n\n")
		for _, fact := range facts {
			b.WriteString(fmt.Sprintf("- %s\n", fact))
		}
		b.WriteString("\n</details>\n\n")
	}

	b.WriteString("---\n\n")

	// Conversation section
	b.WriteString("## Conversation\n\n")

	for _, msg := range messages {
		switch msg.Role {
		case RoleUser:
			b.WriteString("### User\n\n")
		case RoleAssistant:
			b.WriteString("### Assistant\n\n")
		default:
			continue
		}
		b.WriteString(msg.Text)
		b.WriteString("\n\n")
		if len(msg.Files) > 0 {
			b.WriteString("<details>\n")
			b.WriteString("<summary>Attachments</summary>\n\n")
			for _, f := range msg.Files {
				kind := f.Type
				if f.IsImage {
					kind = "image"
				}
				b.WriteString(fmt.Sprintf("- `%s` (%s)\n", f.Name, kind))
			}
			b.WriteString("\n</details>\n\n")
		}
		b.WriteString("---\n\n")
	}

	return b.String()
}

// ExportToText exports a session as a plain-text transcript, one turn per
// block with a timestamp header.
func ExportToText(sess *Session, messages []Message) string {
	var b strings.Builder

	title := sess.Name
	if title == "" {
		title = ShortID(sess.ID)
	}
	b.WriteString(fmt.Sprintf("Conversation: %s\n", title))
	b.WriteString(fmt.Sprintf("Exported: %s\n\n", sess.UpdatedAt.UTC().Format("2006-01-02 15:04 UTC")))

	for _, msg := range messages {
		speaker := "Assistant"
		if msg.Role == RoleUser {
			speaker = "You"
		}
		b.WriteString(fmt.Sprintf("[%s] %s:\n", msg.CreatedAt.Format("15:04:05"), speaker))
		b.WriteString(msg.Text)
		b.WriteString("\n\n")
	}

	return b.String()
}
