package persona

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"safetalk-hive-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestReply_SendsOrderedHistory(t *testing.T) {
	var got replyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/honeypot/reply", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(replyResponse{Reply: "which account?", PersonaName: "ramesh"})
	}))
	defer srv.Close()

	history := []store.Turn{
		{Sender: store.SenderScammer, Text: "pay to 1@upi"},
		{Sender: store.SenderVictim, Text: "how do I do that?"},
		{Sender: store.SenderScammer, Text: "open the app"},
	}

	client := NewClient(srv.URL)
	reply, err := client.Reply(context.Background(), "open the app", store.ScamTypeUPIFraud, history)

	assert.NoError(t, err)
	assert.Equal(t, "which account?", reply.Reply)
	assert.Equal(t, "ramesh", reply.PersonaName)

	assert.Equal(t, "open the app", got.ScammerMessage)
	assert.Equal(t, store.ScamTypeUPIFraud, got.ScamType)
	assert.Len(t, got.ConversationHistory, 3)
	assert.Equal(t, store.SenderScammer, got.ConversationHistory[0].Sender)
	assert.Equal(t, "how do I do that?", got.ConversationHistory[1].Text)
}

func TestReply_NonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	reply, err := client.Reply(context.Background(), "hi", store.ScamTypeDefault, nil)

	assert.Error(t, err)
	assert.Nil(t, reply)
}
