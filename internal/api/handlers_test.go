package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResponder struct {
	answer string
	err    error
	asked  []string
}

func (s *stubResponder) Respond(question string) (string, error) {
	s.asked = append(s.asked, question)
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

type recordingSender struct {
	sent []string // "to: body"
	err  error
}

func (s *recordingSender) SendText(to, body string) error {
	s.sent = append(s.sent, to+": "+body)
	return s.err
}

func newTestRouter(responder *stubResponder, sender *recordingSender) http.Handler {
	return NewRouter(NewWebhookHandler(responder, sender, "correct-token"))
}

func verifyURL(mode, token, challenge string) string {
	q := url.Values{}
	if mode != "" {
		q.Set("hub.mode", mode)
	}
	if token != "" {
		q.Set("hub.verify_token", token)
	}
	if challenge != "" {
		q.Set("hub.challenge", challenge)
	}
	return "/webhook?" + q.Encode()
}

func TestVerify_CorrectToken(t *testing.T) {
	router := newTestRouter(&stubResponder{}, &recordingSender{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, verifyURL("subscribe", "correct-token", "123"), nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "123", rec.Body.String())
}

func TestVerify_WrongToken(t *testing.T) {
	router := newTestRouter(&stubResponder{}, &recordingSender{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, verifyURL("subscribe", "wrong-token", "123"), nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestVerify_WrongMode(t *testing.T) {
	router := newTestRouter(&stubResponder{}, &recordingSender{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, verifyURL("unsubscribe", "correct-token", "123"), nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestVerify_MissingParams(t *testing.T) {
	router := newTestRouter(&stubResponder{}, &recordingSender{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webhook", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

const platformBody = `{
  "object": "whatsapp_business_account",
  "entry": [{"changes": [{"field": "messages", "value": {"messages": [
    {"from": "4479460000", "type": "text", "text": {"body": "do you ship to France?"}}
  ]}}]}]
}`

func postWebhook(router http.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	return rec
}

func TestMessage_PlatformPayloadYieldsOneAnswer(t *testing.T) {
	responder := &stubResponder{answer: "Yes, we ship to all of Europe."}
	sender := &recordingSender{}
	router := newTestRouter(responder, sender)

	rec := postWebhook(router, platformBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Yes, we ship to all of Europe.", resp.Message)

	require.Len(t, responder.asked, 1)
	assert.Equal(t, "do you ship to France?", responder.asked[0])
}

func TestMessage_AnswerDeliveredToSender(t *testing.T) {
	responder := &stubResponder{answer: "Yes!"}
	sender := &recordingSender{}
	router := newTestRouter(responder, sender)

	postWebhook(router, platformBody)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "4479460000: Yes!", sender.sent[0])
}

func TestMessage_DeliveryFailureDoesNotChangeResponse(t *testing.T) {
	responder := &stubResponder{answer: "Yes!"}
	sender := &recordingSender{err: fmt.Errorf("graph api down")}
	router := newTestRouter(responder, sender)

	rec := postWebhook(router, platformBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Yes!", resp.Message)
}

func TestMessage_FlatVariant(t *testing.T) {
	responder := &stubResponder{answer: "We are open 9 to 5."}
	router := newTestRouter(responder, &recordingSender{})

	rec := postWebhook(router, `{"message": {"text": "opening hours?"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "We are open 9 to 5.", resp.Message)
}

func TestMessage_MultipleMessagesYieldList(t *testing.T) {
	body := `{
	  "object": "whatsapp_business_account",
	  "entry": [{"changes": [{"field": "messages", "value": {"messages": [
	    {"from": "1", "type": "text", "text": {"body": "first"}},
	    {"from": "2", "type": "text", "text": {"body": "second"}}
	  ]}}]}]
	}`
	responder := &stubResponder{answer: "answered"}
	router := newTestRouter(responder, &recordingSender{})

	rec := postWebhook(router, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp []MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestMessage_NonTextPayloadIs400NotCrash(t *testing.T) {
	body := `{
	  "object": "whatsapp_business_account",
	  "entry": [{"changes": [{"field": "messages", "value": {"messages": [
	    {"from": "1", "type": "image"}
	  ]}}]}]
	}`
	responder := &stubResponder{answer: "never"}
	router := newTestRouter(responder, &recordingSender{})

	rec := postWebhook(router, body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, responder.asked)
	var errBody map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Contains(t, errBody["error"], "missing expected field")
}

func TestMessage_MalformedJSONIs400(t *testing.T) {
	router := newTestRouter(&stubResponder{}, &recordingSender{})

	rec := postWebhook(router, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMessage_ResponderErrorIs500(t *testing.T) {
	responder := &stubResponder{err: fmt.Errorf("embedding capability down")}
	router := newTestRouter(responder, &recordingSender{})

	rec := postWebhook(router, platformBody)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var errBody map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.NotEmpty(t, errBody["error"])
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&stubResponder{}, &recordingSender{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
