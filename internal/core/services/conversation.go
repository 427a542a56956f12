package services

import (
	"sync"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
)

// DefaultConversationCapacity is the number of messages a conversation retains.
const DefaultConversationCapacity = 10

// Conversation is a bounded ring buffer of messages. When full, appending
// drops the oldest message. It is safe for concurrent use.
type Conversation struct {
	mu    sync.RWMutex
	buf   []domain.ConversationMessage
	start int
	size  int
}

// NewConversation creates a conversation holding at most capacity messages.
// A non-positive capacity uses DefaultConversationCapacity.
func NewConversation(capacity int) *Conversation {
	if capacity <= 0 {
		capacity = DefaultConversationCapacity
	}
	return &Conversation{buf: make([]domain.ConversationMessage, capacity)}
}

// Append adds a message, evicting the oldest one when at capacity.
func (c *Conversation) Append(role domain.Role, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	msg := domain.ConversationMessage{Role: role, Content: content}
	if c.size < len(c.buf) {
		c.buf[(c.start+c.size)%len(c.buf)] = msg
		c.size++
		return
	}
	c.buf[c.start] = msg
	c.start = (c.start + 1) % len(c.buf)
}

// Last returns a copy of up to n most recent messages, oldest first.
func (c *Conversation) Last(n int) []domain.ConversationMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if n > c.size {
		n = c.size
	}
	if n <= 0 {
		return []domain.ConversationMessage{}
	}

	out := make([]domain.ConversationMessage, n)
	first := c.start + c.size - n
	for i := 0; i < n; i++ {
		out[i] = c.buf[(first+i)%len(c.buf)]
	}
	return out
}

// Len returns the number of retained messages.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.size
}

// Cap returns the maximum number of retained messages.
func (c *Conversation) Cap() int {
	return len(c.buf)
}

// Reset drops every message.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.buf)
	c.start = 0
	c.size = 0
}
