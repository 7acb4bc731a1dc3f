// ABOUTME: Tests for the coach session using a scripted completer
// ABOUTME: Verifies logging, directive application and failure handling
package coach

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/harper/fuel-ledger/internal/aggregate"
	"github.com/harper/fuel-ledger/internal/ledger"
	"github.com/harper/fuel-ledger/internal/llm"
	"github.com/harper/fuel-ledger/internal/models"
	"github.com/harper/fuel-ledger/internal/storage"
)

type scriptedCompleter struct {
	reply   string
	err     error
	system  string
	history []llm.Turn
}

func (s *scriptedCompleter) Complete(_ context.Context, system string, history []llm.Turn) (string, error) {
	s.system = system
	s.history = history
	return s.reply, s.err
}

func newTestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	now := time.Date(2026, 6, 1, 19, 0, 0, 0, time.UTC)
	l := ledger.New(storage.NewMemory(), ledger.WithClock(func() time.Time { return now }), ledger.WithLocation(time.UTC))
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestSendAppliesDirectives(t *testing.T) {
	l := newTestLedger(t)
	_ = l.SaveProfile(models.Profile{Name: "Sam", Age: 30, Gender: "male", Height: 180, Weight: 80, Goal: models.GoalLoss})

	fake := &scriptedCompleter{reply: "Nice dinner!\nFOOD_UPDATE: pasta:650\nKeep going."}
	s := NewSession(l, fake, nil)

	reply, err := s.Send(context.Background(), "", "I had pasta for dinner")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if reply.Text != "Nice dinner!\n\nKeep going." {
		t.Errorf("Text = %q", reply.Text)
	}
	if len(reply.Result.Applied) != 1 {
		t.Errorf("Applied = %+v", reply.Result.Applied)
	}

	food := l.Food()
	if len(food) != 1 || food[0].Name != "pasta" || food[0].MealType != models.MealDinner {
		t.Errorf("Food() = %+v", food)
	}

	conv, ok := l.Conversation(reply.ConversationID)
	if !ok {
		t.Fatal("conversation should exist")
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("Messages = %+v", conv.Messages)
	}
	if conv.Messages[1].Sender != models.SenderAssistant || strings.Contains(conv.Messages[1].Text, "FOOD_UPDATE") {
		t.Errorf("assistant message = %+v", conv.Messages[1])
	}
	if conv.Title != "I had pasta for dinner" {
		t.Errorf("Title = %q", conv.Title)
	}

	if !strings.Contains(fake.system, "name: Sam") || !strings.Contains(fake.system, "FOOD_UPDATE") {
		t.Errorf("system prompt missing profile or grammar:\n%s", fake.system)
	}
	if !strings.Contains(fake.system, "Daily calorie target") {
		t.Error("system prompt should include the calorie target for a complete profile")
	}
	if len(fake.history) != 1 || fake.history[0].Role != llm.RoleUser {
		t.Errorf("history = %+v", fake.history)
	}
}

func TestSendContinuesConversation(t *testing.T) {
	l := newTestLedger(t)
	fake := &scriptedCompleter{reply: "ok"}
	s := NewSession(l, fake, nil)

	first, err := s.Send(context.Background(), "", "hello")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if _, err := s.Send(context.Background(), first.ConversationID, "again"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if len(fake.history) != 3 {
		t.Errorf("history has %d turns, want 3", len(fake.history))
	}
	if len(l.Conversations()) != 1 {
		t.Errorf("Conversations() = %d, want 1", len(l.Conversations()))
	}
}

func TestSendOnlyDirectives(t *testing.T) {
	l := newTestLedger(t)
	s := NewSession(l, &scriptedCompleter{reply: "WEIGHT_UPDATE: 79.5"}, nil)

	reply, err := s.Send(context.Background(), "", "weighed in at 79.5")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if reply.Text != "Logged it." {
		t.Errorf("Text = %q, want fallback acknowledgement", reply.Text)
	}
	if w, _ := l.WeightForDay("2026-06-01"); w == nil || w.Weight != 79.5 {
		t.Errorf("WeightForDay() = %+v", w)
	}
}

func TestSendCompleterFailure(t *testing.T) {
	l := newTestLedger(t)
	s := NewSession(l, &scriptedCompleter{err: errors.New("rate limited")}, nil)

	if _, err := s.Send(context.Background(), "", "hello"); err == nil {
		t.Fatal("Send() should fail when the completer fails")
	}

	convs := l.Conversations()
	if len(convs) != 1 || len(convs[0].Messages) != 1 || convs[0].Messages[0].Sender != models.SenderUser {
		t.Errorf("user message should stay logged, got %+v", convs)
	}
}

func TestSendValidation(t *testing.T) {
	l := newTestLedger(t)
	s := NewSession(l, &scriptedCompleter{reply: "ok"}, nil)

	if _, err := s.Send(context.Background(), "", "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("Send() with empty text error = %v, want ErrEmptyMessage", err)
	}
	if _, err := s.Send(context.Background(), "conv_missing", "hi"); !errors.Is(err, ledger.ErrConversationNotFound) {
		t.Errorf("Send() to missing conversation error = %v", err)
	}
}

func TestBuildSystemPromptWithoutProfile(t *testing.T) {
	got := BuildSystemPrompt(nil, aggregate.Totals{Day: "2026-06-01", Calories: 1200}, nil)
	if strings.Contains(got, "User profile") {
		t.Error("prompt should omit the profile section when there is none")
	}
	if !strings.Contains(got, "1200 kcal eaten") {
		t.Errorf("prompt missing totals:\n%s", got)
	}
}
