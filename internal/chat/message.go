package chat

import (
	"time"

	"github.com/instylo/companion/internal/attach"
)

// Message is a single turn in the conversation. Messages are append-only:
// once created they are never edited or individually deleted.
type Message struct {
	Text      string                `json:"text"`
	IsUser    bool                  `json:"is_user"`
	Timestamp time.Time             `json:"timestamp"`
	Files     []attach.UploadedFile `json:"files,omitempty"`
}

// Role returns the provider-facing role label for the message.
func (m Message) Role() string {
	if m.IsUser {
		return "user"
	}
	return "assistant"
}

// Greeting is the seed assistant message every conversation starts with.
const Greeting = "👋 Hello! I'm your Instylo Assistant. I'm here to help you connect with communities, find friends with similar interests, and discover sustainable ways to build meaningful relationships. Feel free to ask me anything about community building, social connections, or how to get involved!"
