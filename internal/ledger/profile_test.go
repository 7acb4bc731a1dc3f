// ABOUTME: Tests for profile and conversation operations
// ABOUTME: Covers merge semantics, cascade delete and conversation ordering
package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/harper/fuel-ledger/internal/models"
)

func TestUpdateProfileMerges(t *testing.T) {
	l, _, _ := newTestLedger(t)

	if _, ok := l.Profile(); ok {
		t.Fatal("fresh ledger should have no profile")
	}

	if err := l.SaveProfile(models.Profile{Name: "Sam", Age: 34, Height: 178, Weight: 82, Goal: models.GoalMaintain}); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}

	p, applied, err := l.UpdateProfile(map[string]interface{}{
		"goal":          "LOSS",
		"targetWeight":  "76",
		"activityLevel": "moderate",
		"favoriteColor": "blue",
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if len(applied) != 3 {
		t.Errorf("applied = %v, want 3 keys", applied)
	}
	if p.Name != "Sam" || p.Goal != models.GoalLoss || p.TargetWeight != 76 || p.ActivityLevel != models.ActivityModerate {
		t.Errorf("UpdateProfile() = %+v", p)
	}

	stored, ok := l.Profile()
	if !ok || stored.Goal != models.GoalLoss || stored.Age != 34 {
		t.Errorf("stored profile = %+v", stored)
	}
}

func TestUpdateProfileNothingApplied(t *testing.T) {
	l, _, _ := newTestLedger(t)

	_, applied, err := l.UpdateProfile(map[string]interface{}{"goal": "fly"})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("applied = %v, want none", applied)
	}
	if _, ok := l.Profile(); ok {
		t.Error("a rejected update should not create a profile")
	}
}

func TestDeleteProfileCascades(t *testing.T) {
	l, _, _ := newTestLedger(t)

	_ = l.SaveProfile(models.Profile{Name: "Sam"})
	_, _ = l.AddFood(models.FoodEntry{Name: "x", Calories: 100})

	if err := l.DeleteProfile(); err != nil {
		t.Fatalf("DeleteProfile() error = %v", err)
	}
	if _, ok := l.Profile(); ok {
		t.Error("profile should be deleted")
	}
	if len(l.Food()) != 0 {
		t.Error("deleting the profile should clear every bucket")
	}
}

func TestConversations(t *testing.T) {
	l, clock, _ := newTestLedger(t)

	first, err := l.StartConversation("")
	if err != nil {
		t.Fatalf("StartConversation() error = %v", err)
	}
	clock.t = clock.t.Add(time.Minute)
	second, _ := l.StartConversation("Meal ideas")

	convs := l.Conversations()
	if len(convs) != 2 || convs[0].ID != second.ID {
		t.Fatalf("Conversations() should list the newest first, got %+v", convs)
	}

	clock.t = clock.t.Add(time.Minute)
	msg, err := l.AddMessage(first.ID, models.SenderUser, "I had eggs for breakfast\nand coffee")
	if err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}
	if msg.ID == "" || msg.Sender != models.SenderUser {
		t.Errorf("AddMessage() = %+v", msg)
	}
	_, _ = l.AddMessage(first.ID, models.SenderAssistant, "Nice, logged it.")

	convs = l.Conversations()
	if convs[0].ID != first.ID {
		t.Error("conversation with a new message should move to the front")
	}
	if convs[0].Title != "I had eggs for breakfast" {
		t.Errorf("Title = %q, want first line of first user message", convs[0].Title)
	}
	if len(convs[0].Messages) != 2 || convs[0].Messages[1].Sender != models.SenderAssistant {
		t.Errorf("Messages = %+v", convs[0].Messages)
	}
	if !convs[0].UpdatedAt.Equal(clock.t) {
		t.Errorf("UpdatedAt = %v, want %v", convs[0].UpdatedAt, clock.t)
	}

	// An explicit title is kept
	_, _ = l.AddMessage(second.ID, models.SenderUser, "something else")
	if c, _ := l.Conversation(second.ID); c.Title != "Meal ideas" {
		t.Errorf("Title = %q, want Meal ideas", c.Title)
	}

	if _, err := l.AddMessage("conv_missing", models.SenderUser, "hi"); !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("AddMessage(missing) error = %v, want ErrConversationNotFound", err)
	}
	if _, err := l.AddMessage(first.ID, models.Sender("robot"), "hi"); err == nil {
		t.Error("AddMessage() with unknown sender should fail")
	}

	deleted, err := l.DeleteConversation(first.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteConversation() = %v, %v", deleted, err)
	}
	if _, ok := l.Conversation(first.ID); ok {
		t.Error("conversation should be deleted")
	}
	deleted, _ = l.DeleteConversation(first.ID)
	if deleted {
		t.Error("deleting twice should be a no-op")
	}
}
