// Package prompt builds the single text payload sent to the generation
// provider. Composition is pure and synchronous; all context gathering
// happens before Compose is called.
package prompt

import (
	"fmt"
	"strings"

	"github.com/instylo/companion/internal/attach"
	"github.com/instylo/companion/internal/chat"
	"github.com/instylo/companion/internal/tone"
)

// HistoryWindow is how many recent messages are replayed for context.
const HistoryWindow = 5

// MaxFileContent caps how much of an attached text file reaches the
// prompt.
const MaxFileContent = 1000

const truncationMark = "... (content truncated)"

// Input carries everything Compose needs. History holds the messages
// before the one being sent; Compose keeps only the most recent
// HistoryWindow of them.
type Input struct {
	Tone      tone.Tone
	History   []chat.Message
	UserName  string
	Memory    []string
	UserInput string
}

// Compose concatenates the tone preamble, the recent history block, the
// known user name, the memory bullets, and the new input, ending with the
// completion cue.
func Compose(in Input) string {
	var b strings.Builder

	b.WriteString(in.Tone.Instruction())
	b.WriteString("\n\n")

	history := in.History
	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}
	if len(history) > 0 {
		b.WriteString("Previous conversation:\n")
		for _, msg := range history {
			if msg.IsUser {
				b.WriteString("User: ")
			} else {
				b.WriteString("Assistant: ")
			}
			b.WriteString(msg.Text)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if in.UserName != "" {
		fmt.Fprintf(&b, "User's name: %s\n\n", in.UserName)
	}

	if len(in.Memory) > 0 {
		b.WriteString("Important context to remember:\n")
		for _, point := range in.Memory {
			fmt.Fprintf(&b, "- %s\n", point)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "User: %s\n\nAssistant:", in.UserInput)
	return b.String()
}

// AugmentWithFiles appends attachment-derived context to the outgoing
// input. Images become a count note (the text endpoint takes no image
// bytes); text files are inlined by name with truncated content.
func AugmentWithFiles(input string, files []attach.UploadedFile) string {
	if len(files) == 0 {
		return input
	}

	var images, texts []attach.UploadedFile
	for _, f := range files {
		if f.IsImage {
			images = append(images, f)
		} else if f.Content != "" {
			texts = append(texts, f)
		}
	}

	var b strings.Builder
	b.WriteString(input)

	if len(images) > 0 {
		if len(images) == 1 {
			b.WriteString("\n\nI've uploaded an image for you to analyze.")
		} else {
			fmt.Fprintf(&b, "\n\nI've uploaded %d images for you to analyze.", len(images))
		}
	}

	if len(texts) > 0 {
		if len(texts) == 1 {
			b.WriteString("\n\nI've uploaded a file with the following content:\n\n")
		} else {
			fmt.Fprintf(&b, "\n\nI've uploaded %d files with the following content:\n\n", len(texts))
		}
		for _, f := range texts {
			fmt.Fprintf(&b, "--- File: %s ---\n", f.Name)
			content := f.Content
			if len(content) > MaxFileContent {
				content = content[:MaxFileContent] + truncationMark
			}
			b.WriteString(content)
			b.WriteString("\n\n")
		}
	}

	return b.String()
}

// FileDescriptions renders the attachment summary lines stored with the
// user's message text.
func FileDescriptions(files []attach.UploadedFile) string {
	lines := make([]string, len(files))
	for i, f := range files {
		kind := f.Type
		if f.IsImage {
			kind = "Image"
		}
		lines[i] = fmt.Sprintf("[File: %s (%s)]", f.Name, kind)
	}
	return strings.Join(lines, "\n")
}
