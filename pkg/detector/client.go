package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Verdict is the normalized classification result.
type Verdict struct {
	IsScam     bool
	Risk       string
	Confidence float64
	Reason     string
}

// Detector classifies free text as scam or legitimate.
type Detector interface {
	Classify(ctx context.Context, message string) (*Verdict, error)
}

type Client struct {
	BaseURL string
	Client  *http.Client
}

// Ensure Client implements Detector
var _ Detector = &Client{}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type analyzeRequest struct {
	Message string `json:"message"`
}

type analyzeResponse struct {
	Risk       string  `json:"risk"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Classify calls the detection service and normalizes its verdict. The
// service's contract is lexical: the message is a scam iff the risk label
// contains "scam" (case-insensitive). The adapter does not second-guess it.
func (c *Client) Classify(ctx context.Context, message string) (*Verdict, error) {
	payloadBytes, err := json.Marshal(analyzeRequest{Message: message})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.BaseURL + "/analyze-text"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("detector request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detector error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var res analyzeResponse
	if err := json.Unmarshal(bodyBytes, &res); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &Verdict{
		IsScam:     strings.Contains(strings.ToLower(res.Risk), "scam"),
		Risk:       res.Risk,
		Confidence: res.Confidence,
		Reason:     res.Reason,
	}, nil
}
