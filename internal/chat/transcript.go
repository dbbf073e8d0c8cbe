package chat

import (
	"sync"
	"time"

	"github.com/instylo/companion/internal/attach"
)

// Transcript is the ordered, append-only message list for one
// conversation. The only bulk operation is Reset, which returns the
// transcript to a single seed greeting.
type Transcript struct {
	mu   sync.Mutex
	msgs []Message
	now  func() time.Time
}

// NewTranscript returns a transcript seeded with the assistant greeting.
func NewTranscript() *Transcript {
	t := &Transcript{now: time.Now}
	t.msgs = []Message{t.seed()}
	return t
}

func (t *Transcript) seed() Message {
	return Message{Text: Greeting, IsUser: false, Timestamp: t.now()}
}

// AppendUser appends a user message with optional attached files and
// returns it.
func (t *Transcript) AppendUser(text string, files []attach.UploadedFile) Message {
	msg := Message{Text: text, IsUser: true, Timestamp: t.now(), Files: files}
	t.mu.Lock()
	t.msgs = append(t.msgs, msg)
	t.mu.Unlock()
	return msg
}

// AppendAssistant appends an assistant message and returns it.
func (t *Transcript) AppendAssistant(text string) Message {
	msg := Message{Text: text, IsUser: false, Timestamp: t.now()}
	t.mu.Lock()
	t.msgs = append(t.msgs, msg)
	t.mu.Unlock()
	return msg
}

// Messages returns a copy of the full message list in append order.
func (t *Transcript) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Message, len(t.msgs))
	copy(out, t.msgs)
	return out
}

// Recent returns a copy of the last n messages in append order.
func (t *Transcript) Recent(n int) []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n > len(t.msgs) {
		n = len(t.msgs)
	}
	out := make([]Message, n)
	copy(out, t.msgs[len(t.msgs)-n:])
	return out
}

func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.msgs)
}

// Reset discards the full history and re-seeds the greeting.
func (t *Transcript) Reset() {
	t.mu.Lock()
	t.msgs = []Message{t.seed()}
	t.mu.Unlock()
}

// Restore replaces the transcript content with previously persisted
// messages. Used when resuming a stored session; an empty slice re-seeds.
func (t *Transcript) Restore(msgs []Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(msgs) == 0 {
		t.msgs = []Message{t.seed()}
		return
	}
	t.msgs = make([]Message, len(msgs))
	copy(t.msgs, msgs)
}
