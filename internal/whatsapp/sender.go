package whatsapp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const DefaultGraphAPIBaseURL = "https://graph.facebook.com/v18.0"

// Sender delivers answers back to the original sender via the WhatsApp
// Cloud API. When token or phone number id are unset, sends become logged
// no-ops so the webhook can still be exercised without credentials.
type Sender struct {
	BaseURL string

	client        *http.Client
	token         string
	phoneNumberID string
}

func NewSender(token, phoneNumberID string) *Sender {
	return &Sender{
		BaseURL:       DefaultGraphAPIBaseURL,
		client:        &http.Client{Timeout: 15 * time.Second},
		token:         token,
		phoneNumberID: phoneNumberID,
	}
}

func (s *Sender) Enabled() bool {
	return s.token != "" && s.phoneNumberID != ""
}

type sendRequest struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             sendTextBody `json:"text"`
}

type sendTextBody struct {
	Body string `json:"body"`
}

// SendText posts a text message to the recipient. Delivery is independent of
// answer generation: callers log failures instead of failing the webhook.
func (s *Sender) SendText(to, body string) error {
	if !s.Enabled() {
		log.Printf("Outbound send disabled (missing token or phone number id); skipping reply to %s", to)
		return nil
	}

	payload := sendRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             sendTextBody{Body: body},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal send request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", s.BaseURL, s.phoneNumberID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("send request returned %s: %s", resp.Status, respBody)
	}
	return nil
}
