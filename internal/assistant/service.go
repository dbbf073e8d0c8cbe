// Package assistant orchestrates one conversation turn: gather pending
// attachments, update extracted memory, compose the prompt, call the
// provider, and persist the result.
package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/instylo/companion/internal/attach"
	"github.com/instylo/companion/internal/chat"
	"github.com/instylo/companion/internal/extract"
	"github.com/instylo/companion/internal/llm"
	"github.com/instylo/companion/internal/memory"
	"github.com/instylo/companion/internal/observability"
	"github.com/instylo/companion/internal/prompt"
	"github.com/instylo/companion/internal/session"
	"github.com/instylo/companion/internal/tone"
)

// Fallback replies shown when generation fails. The conversation keeps
// going; the failure never surfaces as a bare error in the transcript.
const (
	FallbackEmptyResponse = "**Error:** I apologize, but I couldn't generate a proper response."
	FallbackRequestFailed = "**Error:** I apologize, but I encountered an error. Please try again."
)

// ErrBusy is returned when Send is called while a previous turn is still
// in flight. One turn at a time.
var ErrBusy = errors.New("a response is already being generated")

// ErrEmptyInput is returned when there is neither text nor a pending
// attachment to send.
var ErrEmptyInput = errors.New("nothing to send")

// Options configures a Service. Zero values get sensible defaults.
type Options struct {
	Tone   tone.Tone
	Store  session.Store
	Logger *slog.Logger
}

// Service is one live conversation.
type Service struct {
	provider   llm.Provider
	transcript *chat.Transcript
	facts      *memory.FactStore
	files      *attach.Ingestor
	store      session.Store
	logger     *slog.Logger

	mu       sync.Mutex
	tone     tone.Tone
	sess     *session.Session
	seq      int
	inFlight bool
}

// New builds a Service around a provider. The transcript starts with the
// seed greeting.
func New(provider llm.Provider, opts Options) *Service {
	if opts.Tone == "" {
		opts.Tone = tone.Default
	}
	if opts.Store == nil {
		opts.Store = &session.NoopStore{}
	}
	if opts.Logger == nil {
		opts.Logger = observability.Logger()
	}
	return &Service{
		provider:   provider,
		transcript: chat.NewTranscript(),
		facts:      memory.NewFactStore(),
		files:      attach.NewIngestor(opts.Logger),
		store:      opts.Store,
		logger:     opts.Logger,
		tone:       opts.Tone,
	}
}

// Files exposes the attachment ingestor for the CLI layer.
func (s *Service) Files() *attach.Ingestor { return s.files }

// StartSession creates and activates a new stored session seeded with the
// greeting.
func (s *Service) StartSession(ctx context.Context, model string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &session.Session{
		Provider: s.provider.Name(),
		Model:    model,
		Tone:     string(s.tone),
	}
	if err := s.store.Create(ctx, sess); err != nil {
		return err
	}
	seed := session.FromChatMessage(sess.ID, 0, s.transcript.Messages()[0])
	if err := s.store.AddMessage(ctx, sess.ID, seed); err != nil {
		return err
	}
	if err := s.store.SetCurrent(ctx, sess.ID); err != nil {
		return err
	}
	s.sess = sess
	s.seq = 1
	return nil
}

// ResumeSession loads a stored session's transcript and facts into this
// Service.
func (s *Service) ResumeSession(ctx context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.store.GetMessages(ctx, sess.ID, 0, 0)
	if err != nil {
		return err
	}
	msgs := make([]chat.Message, len(stored))
	for i := range stored {
		msgs[i] = stored[i].ToChatMessage()
	}
	s.transcript.Restore(msgs)

	facts, err := s.store.GetFacts(ctx, sess.ID)
	if err != nil {
		return err
	}
	s.facts.Restore(facts)

	if t, err := tone.Parse(sess.Tone); err == nil {
		s.tone = t
	}
	if err := s.store.SetCurrent(ctx, sess.ID); err != nil {
		return err
	}
	s.sess = sess
	s.seq = len(stored)
	return nil
}

// Session returns the active stored session, or nil when persistence is
// off.
func (s *Service) Session() *session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess
}

// SetTone switches the reply tone for subsequent turns.
func (s *Service) SetTone(ctx context.Context, t tone.Tone) {
	s.mu.Lock()
	s.tone = t
	sess := s.sess
	s.mu.Unlock()

	if sess != nil {
		sess.Tone = string(t)
		if err := s.store.Update(ctx, sess); err != nil {
			s.logger.Warn("failed to persist tone change", "error", err)
		}
	}
}

// Tone returns the current reply tone.
func (s *Service) Tone() tone.Tone {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tone
}

// Messages returns a copy of the conversation so far.
func (s *Service) Messages() []chat.Message {
	return s.transcript.Messages()
}

// UserInfo returns what has been learned about the user.
func (s *Service) UserInfo() memory.UserInfo {
	return s.facts.UserInfo()
}

// Memory returns the remembered fact points.
func (s *Service) Memory() []string {
	return s.facts.Points()
}

// Send runs one conversation turn and returns the assistant's reply.
// Pending attachments are consumed into the message. Generation failures
// come back as fallback replies, not errors; the only error cases are a
// turn already in flight and context cancellation.
func (s *Service) Send(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return "", ErrBusy
	}
	s.inFlight = true
	currentTone := s.tone
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	s.files.Wait()
	files := s.files.Take()
	if strings.TrimSpace(text) == "" && len(files) == 0 {
		return "", ErrEmptyInput
	}

	displayText := text
	if desc := prompt.FileDescriptions(files); desc != "" {
		displayText += "\n" + desc
	}

	// Fast-path name detection from the raw input, before the full scan
	if s.facts.UserInfo().Name == "" {
		if name := extract.NameFromText(text); name != "" {
			s.facts.UpsertName(name)
		}
	}

	userMsg := s.transcript.AppendUser(displayText, files)

	msgs := s.transcript.Messages()
	if name := extract.Name(msgs); name != "" {
		s.facts.UpsertName(name)
	}
	if interests := extract.Interests(msgs, s.facts.Points()); len(interests) > 0 {
		s.facts.UpsertInterests(interests)
	}

	info := s.facts.UserInfo()
	composed := prompt.Compose(prompt.Input{
		Tone:      currentTone,
		History:   msgs[:len(msgs)-1],
		UserName:  info.Name,
		Memory:    s.facts.Points(),
		UserInput: prompt.AugmentWithFiles(text, files),
	})

	reply, err := s.provider.Generate(ctx, llm.Request{
		Prompt:          composed,
		Temperature:     currentTone.Temperature(),
		TopK:            tone.TopK,
		TopP:            tone.TopP,
		MaxOutputTokens: tone.MaxOutputTokens,
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		var gerr *llm.GenerationError
		if errors.As(err, &gerr) && gerr.Kind == llm.ErrKindEmptyResponse {
			reply = FallbackEmptyResponse
		} else {
			reply = FallbackRequestFailed
		}
		s.logger.Warn("generation failed", "provider", s.provider.Name(), "error", err)
	}

	assistantMsg := s.transcript.AppendAssistant(reply)
	s.persistTurn(ctx, userMsg, assistantMsg)
	return reply, nil
}

// persistTurn stores the turn best-effort; storage failures are logged,
// never surfaced.
func (s *Service) persistTurn(ctx context.Context, userMsg, assistantMsg chat.Message) {
	s.mu.Lock()
	sess := s.sess
	seq := s.seq
	s.seq += 2
	s.mu.Unlock()
	if sess == nil {
		return
	}

	if err := s.store.AddMessage(ctx, sess.ID, session.FromChatMessage(sess.ID, seq, userMsg)); err != nil {
		s.logger.Warn("failed to persist user message", "session", sess.ID, "error", err)
	}
	if err := s.store.AddMessage(ctx, sess.ID, session.FromChatMessage(sess.ID, seq+1, assistantMsg)); err != nil {
		s.logger.Warn("failed to persist assistant message", "session", sess.ID, "error", err)
	}
	if err := s.store.ReplaceFacts(ctx, sess.ID, s.facts.Points()); err != nil {
		s.logger.Warn("failed to persist memory facts", "session", sess.ID, "error", err)
	}
}

// Reset clears the conversation back to the seed greeting and wipes
// memory and pending attachments. The stored transcript is rewritten in
// the same operation.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return ErrBusy
	}
	sess := s.sess
	s.mu.Unlock()

	s.transcript.Reset()
	s.facts.Clear()
	s.files.Clear()

	if sess == nil {
		return nil
	}
	seed := session.FromChatMessage(sess.ID, 0, s.transcript.Messages()[0])
	if err := s.store.ReplaceMessages(ctx, sess.ID, []session.Message{*seed}); err != nil {
		return err
	}
	if err := s.store.ReplaceFacts(ctx, sess.ID, nil); err != nil {
		return err
	}
	s.mu.Lock()
	s.seq = 1
	s.mu.Unlock()
	return nil
}

// ClearMemory wipes remembered facts without touching the transcript.
func (s *Service) ClearMemory(ctx context.Context) error {
	s.facts.Clear()
	return s.persistFacts(ctx)
}

// AddFact appends a user-authored memory point.
func (s *Service) AddFact(ctx context.Context, text string) error {
	s.facts.Add(text)
	return s.persistFacts(ctx)
}

// UpdateFact rewrites the memory point at index i. Blank text removes it.
func (s *Service) UpdateFact(ctx context.Context, i int, text string) error {
	if !s.facts.Update(i, text) {
		return errors.New("no memory point at that index")
	}
	return s.persistFacts(ctx)
}

// RemoveFact deletes the memory point at index i.
func (s *Service) RemoveFact(ctx context.Context, i int) error {
	if !s.facts.Remove(i) {
		return errors.New("no memory point at that index")
	}
	return s.persistFacts(ctx)
}

func (s *Service) persistFacts(ctx context.Context) error {
	s.mu.Lock()
	sess := s.sess
	s.mu.Unlock()
	if sess == nil {
		return nil
	}
	return s.store.ReplaceFacts(ctx, sess.ID, s.facts.Points())
}
