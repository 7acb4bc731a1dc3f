// ABOUTME: Coach session: logs the chat, asks the model and applies its directives
// ABOUTME: The model's reply is untrusted text; only parsed directives reach the ledger
package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harper/fuel-ledger/internal/aggregate"
	"github.com/harper/fuel-ledger/internal/directive"
	"github.com/harper/fuel-ledger/internal/ledger"
	"github.com/harper/fuel-ledger/internal/llm"
	"github.com/harper/fuel-ledger/internal/logger"
	"github.com/harper/fuel-ledger/internal/models"
)

// DefaultHistory is how many prior messages are sent with each request
const DefaultHistory = 20

// ErrEmptyMessage is returned when there is nothing to send
var ErrEmptyMessage = errors.New("message is empty")

// Completer generates a reply from a system prompt and conversation history
type Completer interface {
	Complete(ctx context.Context, system string, history []llm.Turn) (string, error)
}

// Reply is the outcome of one exchange
type Reply struct {
	ConversationID string           `json:"conversationId"`
	Text           string           `json:"text"`
	Result         directive.Result `json:"result"`
}

// Session talks to the coach on behalf of one surface
type Session struct {
	ledger    *ledger.Ledger
	completer Completer
	applier   *directive.Applier
	log       *logger.Logger
	history   int
}

// NewSession creates a session. log may be nil.
func NewSession(l *ledger.Ledger, c Completer, log *logger.Logger) *Session {
	if log == nil {
		log = logger.Nop()
	}
	return &Session{
		ledger:    l,
		completer: c,
		applier:   directive.NewApplier(l, log),
		log:       log.With("component", "coach"),
		history:   DefaultHistory,
	}
}

// Send records text as a user message in conversation convID (a new
// conversation when empty), asks the model, applies any directives in the
// reply and records the cleaned reply. If the model fails the user message
// stays logged and the error is returned.
func (s *Session) Send(ctx context.Context, convID, text string) (*Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	if convID == "" {
		conv, err := s.ledger.StartConversation("")
		if err != nil {
			return nil, err
		}
		convID = conv.ID
	}

	if _, err := s.ledger.AddMessage(convID, models.SenderUser, text); err != nil {
		return nil, err
	}

	conv, ok := s.ledger.Conversation(convID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ledger.ErrConversationNotFound, convID)
	}

	raw, err := s.completer.Complete(ctx, s.systemPrompt(), s.turns(conv.Messages))
	if err != nil {
		s.log.Warn("coach completion failed", "conversation", convID, "error", err)
		return nil, fmt.Errorf("coach is unavailable: %w", err)
	}

	res := s.applier.Apply(ctx, raw)
	reply := strings.TrimSpace(res.Text)
	if reply == "" && res.Changed() {
		reply = "Logged it."
	}

	if _, err := s.ledger.AddMessage(convID, models.SenderAssistant, reply); err != nil {
		return nil, err
	}

	res.Text = reply
	return &Reply{ConversationID: convID, Text: reply, Result: res}, nil
}

func (s *Session) systemPrompt() string {
	snap := s.ledger.Snapshot()
	today := aggregate.DailyTotals(snap, s.ledger.Today())
	var target *aggregate.Target
	if t, ok := aggregate.CalorieTarget(snap.Profile); ok {
		target = &t
	}
	return BuildSystemPrompt(snap.Profile, today, target)
}

func (s *Session) turns(messages []models.Message) []llm.Turn {
	if len(messages) > s.history {
		messages = messages[len(messages)-s.history:]
	}
	turns := make([]llm.Turn, 0, len(messages))
	for _, m := range messages {
		role := llm.RoleUser
		if m.Sender == models.SenderAssistant {
			role = llm.RoleAssistant
		}
		turns = append(turns, llm.Turn{Role: role, Content: m.Text})
	}
	return turns
}
