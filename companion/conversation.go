package companion

import (
	"sync"
	"time"
)

// ConversationTurn is one exchange in the session log
type ConversationTurn struct {
	Role    string    `json:"role"` // "user" or "assistant"
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Conversation is a bounded turn log. Collaborator goroutines append
// while the event flow reads, so access is serialized here.
type Conversation struct {
	mu       sync.Mutex
	turns    []ConversationTurn
	maxTurns int
}

// NewConversation creates a log keeping the last maxTurns entries
func NewConversation(maxTurns int) *Conversation {
	if maxTurns <= 0 {
		maxTurns = 20
	}
	return &Conversation{maxTurns: maxTurns}
}

// AddUser appends a user turn
func (c *Conversation) AddUser(content string) {
	c.add("user", content)
}

// AddAssistant appends an assistant turn
func (c *Conversation) AddAssistant(content string) {
	c.add("assistant", content)
}

func (c *Conversation) add(role, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.turns = append(c.turns, ConversationTurn{
		Role:    role,
		Content: content,
		At:      time.Now(),
	})
	if len(c.turns) > c.maxTurns {
		c.turns = append(c.turns[:0], c.turns[len(c.turns)-c.maxTurns:]...)
	}
}

// Window returns a copy of the retained turns, oldest first
func (c *Conversation) Window() []ConversationTurn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ConversationTurn(nil), c.turns...)
}

// Len reports how many turns are retained
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.turns)
}
