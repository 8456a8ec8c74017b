package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Akra-Ai42/crispy-umbrella/metrics"
	"github.com/Akra-Ai42/crispy-umbrella/models"
)

// Handler receives decoded events from the webhook.
type Handler interface {
	HandleStart(event models.Event) error
	HandleText(event models.Event) error
}

// WebhookController decodes Telegram updates and dispatches them.
type WebhookController struct {
	handler Handler
}

func NewWebhookController(handler Handler) *WebhookController {
	return &WebhookController{handler: handler}
}

// Telegram update wire shape; only the fields the relay reads.
type telegramUpdate struct {
	UpdateID int64            `json:"update_id"`
	Message  *telegramMessage `json:"message"`
}

type telegramMessage struct {
	MessageID int64        `json:"message_id"`
	Chat      telegramChat `json:"chat"`
	Text      string       `json:"text"`
}

type telegramChat struct {
	ID int64 `json:"id"`
}

// Webhook handles POST /webhook. It always acknowledges with 200
// {"ok": true}: any non-2xx would make Telegram redeliver the update and
// duplicate the turn, so processing failures are only logged.
func (c *WebhookController) Webhook(ctx *gin.Context) {
	var update telegramUpdate
	if err := ctx.ShouldBindJSON(&update); err != nil {
		log.Error().Err(err).Msg("failed to decode webhook payload")
		metrics.RecordUpdate("decode_error")
		ctx.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	event, ok := decodeEvent(update)
	if !ok {
		// Edited messages, stickers, joins etc. are silently dropped.
		metrics.RecordUpdate("dropped")
		ctx.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	go c.dispatch(event)
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func (c *WebhookController) dispatch(event models.Event) {
	var err error
	switch {
	case event.Command == "start":
		metrics.RecordUpdate("command")
		err = c.handler.HandleStart(event)
	case event.Command != "":
		// Unrecognized commands have no handler.
		metrics.RecordUpdate("dropped")
	default:
		metrics.RecordUpdate("text")
		err = c.handler.HandleText(event)
	}
	if err != nil {
		log.Error().Err(err).Int64("chat_id", event.ChatID).Str("command", event.Command).Msg("failed to process update")
	}
}

// decodeEvent maps a raw update onto the typed boundary event.
func decodeEvent(update telegramUpdate) (models.Event, bool) {
	if update.Message == nil || update.Message.Chat.ID == 0 {
		return models.Event{}, false
	}
	event := models.Event{
		ChatID: update.Message.Chat.ID,
		Text:   update.Message.Text,
	}
	if cmd, ok := parseCommand(update.Message.Text); ok {
		event.Command = cmd
	}
	return event, true
}

// parseCommand extracts a leading bot command, stripping any "@botname"
// suffix ("/start@sophia_bot" -> "start").
func parseCommand(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	cmd := strings.Fields(text)[0][1:]
	if at := strings.Index(cmd, "@"); at >= 0 {
		cmd = cmd[:at]
	}
	if cmd == "" {
		return "", false
	}
	return cmd, true
}

// Health handles GET /healthz.
func (c *WebhookController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
