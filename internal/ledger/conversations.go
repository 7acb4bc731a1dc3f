// ABOUTME: Conversation log operations on the ledger
// ABOUTME: The bucket is kept most recently updated first
package ledger

import (
	"fmt"
	"strings"

	"github.com/harper/fuel-ledger/internal/models"
	"github.com/harper/fuel-ledger/internal/storage"
)

// Conversations returns every conversation, most recently updated first
func (l *Ledger) Conversations() []models.Conversation {
	return storage.ReadBucket[models.Conversation](l.store, BucketConversations)
}

// Conversation returns the conversation with id
func (l *Ledger) Conversation(id string) (*models.Conversation, bool) {
	for _, c := range l.Conversations() {
		if c.ID == id {
			c := c
			return &c, true
		}
	}
	return nil, false
}

// StartConversation creates an empty conversation at the front of the list
func (l *Ledger) StartConversation(title string) (models.Conversation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	conv := models.NewConversation(title, l.now())
	convs, err := storage.LoadBucket[models.Conversation](l.store, BucketConversations)
	if err != nil {
		return models.Conversation{}, fmt.Errorf("failed to start conversation: %w", err)
	}
	convs = append([]models.Conversation{*conv}, convs...)
	if err := storage.WriteBucket(l.store, BucketConversations, convs); err != nil {
		return models.Conversation{}, fmt.Errorf("failed to start conversation: %w", err)
	}
	return *conv, nil
}

// AddMessage appends a message to a conversation and moves it to the front.
// The first user message titles an untitled conversation.
func (l *Ledger) AddMessage(convID string, sender models.Sender, text string) (models.Message, error) {
	if !sender.Valid() {
		return models.Message{}, fmt.Errorf("unknown sender %q", sender)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	convs, err := storage.LoadBucket[models.Conversation](l.store, BucketConversations)
	if err != nil {
		return models.Message{}, fmt.Errorf("failed to add message: %w", err)
	}
	idx := -1
	for i := range convs {
		if convs[i].ID == convID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Message{}, fmt.Errorf("%w: %s", ErrConversationNotFound, convID)
	}

	now := l.now()
	msg := models.NewMessage(sender, text, now)
	conv := convs[idx]
	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = now
	if sender == models.SenderUser && conv.Title == models.DefaultConversationTitle && strings.TrimSpace(text) != "" {
		conv.Title = models.TitleFrom(text)
	}

	reordered := make([]models.Conversation, 0, len(convs))
	reordered = append(reordered, conv)
	reordered = append(reordered, convs[:idx]...)
	reordered = append(reordered, convs[idx+1:]...)

	if err := storage.WriteBucket(l.store, BucketConversations, reordered); err != nil {
		return models.Message{}, fmt.Errorf("failed to add message: %w", err)
	}
	return msg, nil
}

// DeleteConversation removes a conversation; a missing id is not an error
func (l *Ledger) DeleteConversation(id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	convs, err := storage.LoadBucket[models.Conversation](l.store, BucketConversations)
	if err != nil {
		return false, fmt.Errorf("failed to delete conversation: %w", err)
	}
	kept := make([]models.Conversation, 0, len(convs))
	for _, c := range convs {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(convs) {
		return false, nil
	}
	if err := storage.WriteBucket(l.store, BucketConversations, kept); err != nil {
		return false, fmt.Errorf("failed to delete conversation: %w", err)
	}
	return true, nil
}
