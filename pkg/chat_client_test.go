package pkg

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Akra-Ai42/crispy-umbrella/models"
)

func TestComplete_SendsFixedSamplingParams(t *testing.T) {
	var gotBody map[string]any
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"Salut !"}}]}`)
	}))
	defer srv.Close()

	c := NewChatClient(srv.URL, "test-key", "test-model")
	reply, err := c.Complete([]models.Message{{Role: models.RoleUser, Content: "Bonjour"}})
	require.NoError(t, err)
	require.Equal(t, "Salut !", reply)

	require.Equal(t, "Bearer test-key", gotAuth)
	require.Equal(t, "test-model", gotBody["model"])
	require.InDelta(t, 0.75, gotBody["temperature"], 1e-9)
	require.InDelta(t, 500, gotBody["max_tokens"], 1e-9)
	require.InDelta(t, 0.9, gotBody["top_p"], 1e-9)

	msgs, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 1)
}

func TestComplete_NonSuccessStatusIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":"rate limited"}`)
	}))
	defer srv.Close()

	c := NewChatClient(srv.URL, "k", "m")
	_, err := c.Complete([]models.Message{{Role: models.RoleUser, Content: "hi"}})
	require.Error(t, err)

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	require.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
	require.Contains(t, upstream.Body, "rate limited")
}

func TestComplete_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `not json at all`)
	}))
	defer srv.Close()

	c := NewChatClient(srv.URL, "k", "m")
	_, err := c.Complete([]models.Message{{Role: models.RoleUser, Content: "hi"}})
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestComplete_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	c := NewChatClient(srv.URL, "k", "m")
	_, err := c.Complete([]models.Message{{Role: models.RoleUser, Content: "hi"}})
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestComplete_EmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"   "}}]}`)
	}))
	defer srv.Close()

	c := NewChatClient(srv.URL, "k", "m")
	_, err := c.Complete([]models.Message{{Role: models.RoleUser, Content: "hi"}})
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestComplete_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewChatClient(srv.URL, "k", "m")
	_, err := c.Complete([]models.Message{{Role: models.RoleUser, Content: "hi"}})
	require.Error(t, err)
}
