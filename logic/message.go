package logic

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Akra-Ai42/crispy-umbrella/dao"
	"github.com/Akra-Ai42/crispy-umbrella/metrics"
	"github.com/Akra-Ai42/crispy-umbrella/models"
)

// User-facing texts. The apology is the single reply for every upstream
// failure, whatever its cause.
const (
	greetingAskName = "Bonjour, je suis Soph_IA, ta confidente virtuelle. Quel est ton prénom ?"
	apologyReply    = "Je suis désolée, mon esprit est confus en ce moment. Réessaie dans un instant."
)

func welcomeBackReply(name string) string {
	return fmt.Sprintf("Bonjour %s, heureuse de te retrouver 💖", name)
}

func nameCapturedReply(name string) string {
	return fmt.Sprintf("Enchantée %s, c’est un plaisir de faire ta connaissance 🌸", name)
}

// Completer produces a completion for an ordered prompt.
type Completer interface {
	Complete(messages []models.Message) (string, error)
}

// Messenger sends replies and presence indicators back to the user.
type Messenger interface {
	SendMessage(chatID int64, text string) error
	SendChatAction(chatID int64, action string) error
}

// MessageLogic drives the per-chat onboarding and turn state machine.
type MessageLogic struct {
	store      dao.ConversationStore
	chatClient Completer
	messenger  Messenger
	maxHistory int
}

func NewMessageLogic(store dao.ConversationStore, chatClient Completer, messenger Messenger, maxHistory int) *MessageLogic {
	return &MessageLogic{
		store:      store,
		chatClient: chatClient,
		messenger:  messenger,
		maxHistory: maxHistory,
	}
}

// HandleStart handles the /start command. It never resets state.
func (l *MessageLogic) HandleStart(event models.Event) error {
	var reply string
	err := l.store.Update(event.ChatID, func(c *models.Conversation) error {
		if c.Awaiting() {
			reply = greetingAskName
		} else {
			reply = welcomeBackReply(c.Name)
		}
		return nil
	})
	if err != nil {
		return err
	}
	metrics.SetConversationsTracked(l.store.Len())
	return l.messenger.SendMessage(event.ChatID, reply)
}

// HandleText processes one plain-text message. The whole turn runs under
// the conversation's lock, so rapid messages from one chat serialize.
func (l *MessageLogic) HandleText(event models.Event) error {
	text := strings.TrimSpace(event.Text)
	if text == "" {
		return nil
	}

	var reply string
	err := l.store.Update(event.ChatID, func(c *models.Conversation) error {
		// First non-blank message is the user's name, not a turn.
		if c.Awaiting() {
			c.Name = text
			reply = nameCapturedReply(text)
			return nil
		}

		c.History = append(c.History, models.Message{Role: models.RoleUser, Content: text})
		c.History = trimHistory(c.History, l.maxHistory)

		if err := l.messenger.SendChatAction(event.ChatID, "typing"); err != nil {
			log.Warn().Err(err).Int64("chat_id", event.ChatID).Msg("failed to send typing action")
		}

		prompt := BuildSystemPrompt(c.Name, c.Summary)
		messages := make([]models.Message, 0, len(c.History)+1)
		messages = append(messages, models.Message{Role: models.RoleSystem, Content: prompt})
		messages = append(messages, c.History...)

		started := time.Now()
		answer, err := l.chatClient.Complete(messages)
		if err != nil {
			metrics.RecordModelRequest("error", time.Since(started))
			// The user's turn stays recorded; the apology does not.
			log.Error().Err(err).Int64("chat_id", event.ChatID).Msg("chat completion failed")
			metrics.RecordReply("apology")
			reply = apologyReply
			return nil
		}

		metrics.RecordModelRequest("ok", time.Since(started))
		c.History = append(c.History, models.Message{Role: models.RoleAssistant, Content: answer})
		c.History = trimHistory(c.History, l.maxHistory)
		metrics.RecordReply("ok")
		reply = answer
		return nil
	})
	if err != nil {
		return err
	}
	metrics.SetConversationsTracked(l.store.Len())
	return l.messenger.SendMessage(event.ChatID, reply)
}

// trimHistory keeps the most recent maxHistory user/assistant pairs.
func trimHistory(history []models.Message, maxHistory int) []models.Message {
	limit := 2 * maxHistory
	if len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}
