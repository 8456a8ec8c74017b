package models

// Message roles as sent to the chat-completion API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation holds everything remembered about one Telegram chat.
// Name stays empty until the user answers the onboarding question;
// Summary is a placeholder for long-term memory and is never written
// by the current code.
type Conversation struct {
	ChatID  int64     `json:"chat_id"`
	Name    string    `json:"name"`
	History []Message `json:"history"`
	Summary string    `json:"summary"`
}

// Awaiting reports whether this chat is still in the name-capture phase.
func (c *Conversation) Awaiting() bool {
	return c.Name == ""
}
