package whatsapp

// Webhook payload shapes for the WhatsApp Business Platform. The flat
// Message field covers the simplified test variant some gateways send.
type WebhookPayload struct {
	Object  string       `json:"object"`
	Entry   []Entry      `json:"entry"`
	Message *FlatMessage `json:"message,omitempty"`
}

type FlatMessage struct {
	Text string `json:"text"`
	From string `json:"from"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

type ChangeValue struct {
	MessagingProduct string    `json:"messaging_product"`
	Messages         []Message `json:"messages"`
}

type Message struct {
	From string       `json:"from"`
	ID   string       `json:"id"`
	Type string       `json:"type"`
	Text *MessageText `json:"text"`
}

type MessageText struct {
	Body string `json:"body"`
}

// InboundText is one user text message extracted from a webhook delivery.
type InboundText struct {
	From string
	Body string
}

// DecodeError reports which expected payload field was absent, so callers
// can return a descriptive 400 instead of silently defaulting.
type DecodeError struct {
	Missing string
}

func (e *DecodeError) Error() string {
	return "webhook payload missing expected field: " + e.Missing
}

// ExtractMessages walks every entry, every change, and every message of a
// webhook delivery and returns the text messages found. Entries, changes,
// and messages that don't match the expected field or type are skipped, not
// failed. When nothing matches, the returned DecodeError names the deepest
// field that was absent.
func ExtractMessages(p *WebhookPayload) ([]InboundText, error) {
	if p == nil {
		return nil, &DecodeError{Missing: "body"}
	}

	// Simplified flat variant: no platform envelope, just {message: {text}}.
	if p.Object == "" && len(p.Entry) == 0 {
		if p.Message == nil {
			return nil, &DecodeError{Missing: "message"}
		}
		if p.Message.Text == "" {
			return nil, &DecodeError{Missing: "message.text"}
		}
		return []InboundText{{From: p.Message.From, Body: p.Message.Text}}, nil
	}

	if len(p.Entry) == 0 {
		return nil, &DecodeError{Missing: "entry"}
	}

	missing := "entry.changes"
	var texts []InboundText
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			if missing == "entry.changes" {
				missing = "changes.value.messages"
			}
			for _, msg := range change.Value.Messages {
				if missing == "changes.value.messages" {
					missing = `messages[].type == "text"`
				}
				if msg.Type != "text" {
					continue
				}
				if msg.Text == nil || msg.Text.Body == "" {
					missing = "messages[].text.body"
					continue
				}
				texts = append(texts, InboundText{From: msg.From, Body: msg.Text.Body})
			}
		}
	}

	if len(texts) == 0 {
		return nil, &DecodeError{Missing: missing}
	}
	return texts, nil
}
