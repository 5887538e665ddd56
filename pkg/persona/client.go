package persona

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"safetalk-hive-be/pkg/store"
)

// Reply is the next honeypot message, attributed to the persona that wrote it.
type Reply struct {
	Reply       string
	PersonaName string
}

// Responder generates honeypot replies in character.
type Responder interface {
	Reply(ctx context.Context, scammerMessage, scamType string, history []store.Turn) (*Reply, error)
}

type Client struct {
	BaseURL string
	Client  *http.Client
}

// Ensure Client implements Responder
var _ Responder = &Client{}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Client: &http.Client{
			// Reply generation goes through an LLM; allow it more headroom
			// than the other service calls.
			Timeout: 60 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type replyRequest struct {
	ScammerMessage      string       `json:"scammer_message"`
	ScamType            string       `json:"scam_type"`
	ConversationHistory []store.Turn `json:"conversation_history"`
}

type replyResponse struct {
	Reply       string `json:"reply"`
	PersonaName string `json:"persona_name"`
}

// Reply sends the full ordered history; the service replays it verbatim to
// the underlying model, so ordering matters.
func (c *Client) Reply(ctx context.Context, scammerMessage, scamType string, history []store.Turn) (*Reply, error) {
	payloadBytes, err := json.Marshal(replyRequest{
		ScammerMessage:      scammerMessage,
		ScamType:            scamType,
		ConversationHistory: history,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.BaseURL + "/honeypot/reply"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("persona request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("persona error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var res replyResponse
	if err := json.Unmarshal(bodyBytes, &res); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &Reply{Reply: res.Reply, PersonaName: res.PersonaName}, nil
}
