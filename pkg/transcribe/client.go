package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Transcriber converts voice media into text before it enters the pipeline.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Client talks to the whisper sidecar that the WhatsApp bridge saves audio
// files for.
type Client struct {
	BaseURL string
	Client  *http.Client
}

// Ensure Client implements Transcriber
var _ Transcriber = &Client{}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Client: &http.Client{
			// Whisper on CPU is slow for long voice notes.
			Timeout: 120 * time.Second,
		},
	}
}

type transcribeRequest struct {
	AudioPath string `json:"audio_path"`
}

type transcribeResponse struct {
	Text string `json:"text"`
}

func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	payloadBytes, err := json.Marshal(transcribeRequest{AudioPath: audioPath})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := c.BaseURL + "/transcribe"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcriber request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcriber error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var res transcribeResponse
	if err := json.Unmarshal(bodyBytes, &res); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	return res.Text, nil
}
