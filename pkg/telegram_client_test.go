package pkg

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		io.WriteString(w, `{"ok":true,"result":{}}`)
	}))
	defer srv.Close()

	c := NewTelegramClient(srv.URL, 2*time.Second)
	require.NoError(t, c.SendMessage(123, "Bonjour 💖"))

	require.Equal(t, "/sendMessage", gotPath)
	require.InDelta(t, 123, gotBody["chat_id"], 1e-9)
	require.Equal(t, "Bonjour 💖", gotBody["text"])
}

func TestSendMessage_TruncatesLongText(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		io.WriteString(w, `{"ok":true,"result":{}}`)
	}))
	defer srv.Close()

	c := NewTelegramClient(srv.URL, 2*time.Second)
	require.NoError(t, c.SendMessage(1, strings.Repeat("é", 5000)))

	sent, ok := gotBody["text"].(string)
	require.True(t, ok)
	require.Equal(t, telegramMaxMessageChars, len([]rune(sent)))
}

func TestSendChatAction(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		io.WriteString(w, `{"ok":true,"result":true}`)
	}))
	defer srv.Close()

	c := NewTelegramClient(srv.URL, 2*time.Second)
	require.NoError(t, c.SendChatAction(42, "typing"))

	require.Equal(t, "/sendChatAction", gotPath)
	require.Equal(t, "typing", gotBody["action"])
}

func TestSetWebhook(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/setWebhook", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		io.WriteString(w, `{"ok":true,"result":true}`)
	}))
	defer srv.Close()

	c := NewTelegramClient(srv.URL, 2*time.Second)
	require.NoError(t, c.SetWebhook("https://example.com/webhook"))
	require.Equal(t, "https://example.com/webhook", gotBody["url"])
}

func TestSetWebhook_RejectedByAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":false,"description":"bad webhook: HTTPS url must be provided"}`)
	}))
	defer srv.Close()

	c := NewTelegramClient(srv.URL, 2*time.Second)
	err := c.SetWebhook("http://insecure.example.com/webhook")
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad webhook")
}
