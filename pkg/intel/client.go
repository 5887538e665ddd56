package intel

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

// Extractor derives structured indicators from raw conversation text.
type Extractor interface {
	Extract(ctx context.Context, message string) (*store.IntelRecord, error)
}

type Client struct {
	BaseURL string
	Client  *http.Client
}

// Ensure Client implements Extractor
var _ Extractor = &Client{}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type extractRequest struct {
	Message string `json:"message"`
}

func (c *Client) Extract(ctx context.Context, message string) (*store.IntelRecord, error) {
	payloadBytes, err := json.Marshal(extractRequest{Message: message})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.BaseURL + "/honeypot/extract"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extractor request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extractor error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var record store.IntelRecord
	if err := json.Unmarshal(bodyBytes, &record); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &record, nil
}
