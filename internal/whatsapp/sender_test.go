package whatsapp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendText_PostsGraphAPIRequest(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"messages":[{"id":"wamid.y"}]}`))
	}))
	defer srv.Close()

	s := NewSender("secret-token", "10987654321")
	s.BaseURL = srv.URL

	err := s.SendText("4479460000", "We are open 9 to 5.")
	require.NoError(t, err)

	assert.Equal(t, "/10987654321/messages", gotPath)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "whatsapp", gotBody.MessagingProduct)
	assert.Equal(t, "4479460000", gotBody.To)
	assert.Equal(t, "text", gotBody.Type)
	assert.Equal(t, "We are open 9 to 5.", gotBody.Text.Body)
}

func TestSendText_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad token"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := NewSender("bad-token", "10987654321")
	s.BaseURL = srv.URL

	err := s.SendText("4479460000", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSendText_DisabledWithoutCredentials(t *testing.T) {
	s := NewSender("", "")
	assert.False(t, s.Enabled())
	// No server configured: a real send attempt would fail, a disabled one is a no-op.
	assert.NoError(t, s.SendText("4479460000", "hello"))
}
