package detector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestServer(t *testing.T, status int, body analyzeResponse) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analyze-text", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req analyzeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Message)

		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
}

func TestClassify_ScamVerdict(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, analyzeResponse{
		Risk:       "Likely Scam",
		Confidence: 0.93,
		Reason:     "Requests an OTP",
	})
	defer srv.Close()

	client := NewClient(srv.URL)
	verdict, err := client.Classify(context.Background(), "share your otp")

	assert.NoError(t, err)
	assert.True(t, verdict.IsScam)
	assert.Equal(t, "Likely Scam", verdict.Risk)
	assert.InDelta(t, 0.93, verdict.Confidence, 0.001)
}

func TestClassify_LegitimateVerdict(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, analyzeResponse{
		Risk:       "Safe",
		Confidence: 0.12,
	})
	defer srv.Close()

	client := NewClient(srv.URL)
	verdict, err := client.Classify(context.Background(), "see you at lunch")

	assert.NoError(t, err)
	assert.False(t, verdict.IsScam)
}

func TestClassify_RiskMatchIsCaseInsensitive(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, analyzeResponse{Risk: "SCAM"})
	defer srv.Close()

	client := NewClient(srv.URL)
	verdict, err := client.Classify(context.Background(), "anything")

	assert.NoError(t, err)
	assert.True(t, verdict.IsScam)
}

func TestClassify_NonOKStatusIsError(t *testing.T) {
	srv := newTestServer(t, http.StatusInternalServerError, analyzeResponse{})
	defer srv.Close()

	client := NewClient(srv.URL)
	verdict, err := client.Classify(context.Background(), "anything")

	assert.Error(t, err)
	assert.Nil(t, verdict)
}
