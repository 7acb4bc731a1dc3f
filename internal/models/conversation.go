// ABOUTME: Conversation groups the chat messages exchanged with the coach
// ABOUTME: Messages are ordered; conversations are listed most recently updated first
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sender identifies who wrote a message
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Valid reports whether s is a known sender
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAssistant
}

// Message is one chat message
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is an ordered chat thread
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Messages  []Message `json:"messages"`
}

// DefaultConversationTitle is used until the first user message names the thread
const DefaultConversationTitle = "New conversation"

const maxTitleRunes = 40

// NewConversation creates an empty conversation
func NewConversation(title string, now time.Time) *Conversation {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultConversationTitle
	}
	return &Conversation{
		ID:        "conv_" + uuid.New().String(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []Message{},
	}
}

// NewMessage creates a message stamped with now
func NewMessage(sender Sender, text string, now time.Time) Message {
	return Message{
		ID:        "msg_" + uuid.New().String()[:12],
		Text:      text,
		Sender:    sender,
		Timestamp: now,
	}
}

// TitleFrom derives a conversation title from the first line of text
func TitleFrom(text string) string {
	line := strings.TrimSpace(text)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	if line == "" {
		return DefaultConversationTitle
	}
	runes := []rune(line)
	if len(runes) <= maxTitleRunes {
		return line
	}
	return strings.TrimSpace(string(runes[:maxTitleRunes-3])) + "..."
}
