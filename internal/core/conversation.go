package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chainpilot-ai/chainpilot/internal/intent"
	"github.com/chainpilot-ai/chainpilot/internal/wallet"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Entry is one conversation turn. Entries are append-only, never mutated
// after creation and never persisted beyond the session.
type Entry struct {
	ID        string         `json:"id"`
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Intent    *intent.Record `json:"intent,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// ErrTurnInFlight rejects a Send while the previous turn is still being
// processed; each user action is serialized, there is no queue.
var ErrTurnInFlight = errors.New("a message is already being processed")

const (
	ackContent     = "ACKNOWLEDGED."
	failureContent = "ERROR: PROCESSING FAILED."
)

// Conversation drives the per-turn idle -> sending -> idle loop, appends the
// user/assistant log, and opens the confirmation flow when a transfer intent
// clears the confidence threshold.
type Conversation struct {
	mu      sync.Mutex
	entries []Entry
	sending bool

	service   *IntentService
	session   *wallet.Session
	confirm   *ConfirmationFlow
	threshold float64
}

// NewConversation builds a controller bound to one wallet session. The
// threshold is the single policy value gating confirmation; risk flags are
// already priced into confidence by the relay's validation cap.
func NewConversation(service *IntentService, session *wallet.Session, threshold float64) *Conversation {
	c := &Conversation{
		service:   service,
		session:   session,
		threshold: threshold,
	}
	c.confirm = newConfirmationFlow(session, c.appendAssistant)
	return c
}

// Confirmation exposes the flow gating intent-to-signing hand-off.
func (c *Conversation) Confirmation() *ConfirmationFlow {
	return c.confirm
}

// Send runs one turn: append the user entry, relay to the intent service,
// append the assistant reply. A failed turn is terminal; the user resends.
func (c *Conversation) Send(ctx context.Context, text string) (*intent.Record, error) {
	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return nil, ErrTurnInFlight
	}
	c.sending = true
	c.entries = append(c.entries, newEntry(RoleUser, text, nil))
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.sending = false
		c.mu.Unlock()
	}()

	rec, err := c.service.Parse(ctx, text, c.session.Address())
	if err != nil {
		c.appendAssistant(failureContent)
		return nil, err
	}

	content := rec.Summary
	if content == "" {
		content = rec.Error
	}
	if content == "" {
		content = ackContent
	}

	c.mu.Lock()
	c.entries = append(c.entries, newEntry(RoleAssistant, content, rec))
	c.mu.Unlock()

	if rec.IntentDetected && rec.Action == intent.ActionTransfer && rec.Confidence > c.threshold {
		c.confirm.Open(rec)
	}
	return rec, nil
}

// Entries returns a snapshot of the conversation log.
func (c *Conversation) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Conversation) appendAssistant(content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, newEntry(RoleAssistant, content, nil))
}

func newEntry(role Role, content string, rec *intent.Record) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Intent:    rec,
		Timestamp: time.Now(),
	}
}
