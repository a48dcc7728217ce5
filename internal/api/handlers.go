package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/rossdeane/aisidekick-chunky-monkey/internal/whatsapp"
)

// Responder produces an answer for a user question.
type Responder interface {
	Respond(question string) (string, error)
}

// Deliverer posts an answer back to the chat platform.
type Deliverer interface {
	SendText(to, body string) error
}

type WebhookHandler struct {
	responder   Responder
	sender      Deliverer
	verifyToken string
}

func NewWebhookHandler(responder Responder, sender Deliverer, verifyToken string) *WebhookHandler {
	return &WebhookHandler{
		responder:   responder,
		sender:      sender,
		verifyToken: verifyToken,
	}
}

// VerifyHandler implements the platform's webhook verification handshake:
// echo the challenge iff mode is "subscribe" and the token matches.
func (h *WebhookHandler) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "" || token == "" {
		writeJSONError(w, http.StatusBadRequest, "Missing verification parameters")
		return
	}
	if mode != "subscribe" || token != h.verifyToken {
		writeJSONError(w, http.StatusForbidden, "Invalid verification token")
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(challenge))
}

type MessageResponse struct {
	Message string `json:"message"`
}

// MessageHandler handles inbound webhook deliveries: extract the text
// messages, generate an answer for each, and reply. Delivery back to the
// sender is a separate step whose failure is logged, not surfaced.
func (h *WebhookHandler) MessageHandler(w http.ResponseWriter, r *http.Request) {
	var payload whatsapp.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	messages, err := whatsapp.ExtractMessages(&payload)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	responses := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		answer, err := h.responder.Respond(msg.Body)
		if err != nil {
			log.Printf("Error generating answer for message from %s: %v", msg.From, err)
			writeJSONError(w, http.StatusInternalServerError, "Failed to generate answer")
			return
		}
		responses = append(responses, MessageResponse{Message: answer})

		// Deliver independently of the webhook response.
		if msg.From != "" {
			if err := h.sender.SendText(msg.From, answer); err != nil {
				log.Printf("Failed to deliver answer to %s: %v", msg.From, err)
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if len(responses) == 1 {
		json.NewEncoder(w).Encode(responses[0])
		return
	}
	json.NewEncoder(w).Encode(responses)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
