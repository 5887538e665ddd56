package store

import (
	"strings"
	"sync"
	"time"
)

// Turn senders. These values are part of the persona service wire format,
// so they must not change independently of it.
const (
	SenderScammer = "scammer"
	SenderVictim  = "victim"
)

// Scam type categories. The persona service selects a persona by this tag.
const (
	ScamTypeUPIFraud  = "upi_fraud"
	ScamTypeBankFraud = "bank_fraud"
	ScamTypeLottery   = "lottery"
	ScamTypePhishing  = "phishing"
	ScamTypeDefault   = "default"
)

// Turn is a single message of an engagement, in conversation order.
type Turn struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// IntelRecord is the structured intelligence extracted from a conversation.
// Each set is deduplicated by the extraction service; empty means "nothing
// found", never nil at the point of reporting.
type IntelRecord struct {
	UPIIDs             []string `json:"upiIds"`
	PhoneNumbers       []string `json:"phoneNumbers"`
	PhishingLinks      []string `json:"phishingLinks"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
}

// Identifiers returns the concrete scammer identifiers (everything except
// keywords), used for fingerprinting.
func (r *IntelRecord) Identifiers() []string {
	out := make([]string, 0, len(r.UPIIDs)+len(r.PhoneNumbers)+len(r.PhishingLinks))
	out = append(out, r.UPIIDs...)
	out = append(out, r.PhoneNumbers...)
	out = append(out, r.PhishingLinks...)
	return out
}

// Session is the in-memory engagement state of one chat. A session only
// exists while the chat is engaged; resetting a chat deletes the session
// instead of flipping Active back. ChatID, Active, ScamType and StartTime
// are fixed at creation; History and Intel mutate through the locked
// helpers so out-of-band readers (the sessions view) don't race a turn.
type Session struct {
	ChatID    string       `json:"chat_id"`
	Active    bool         `json:"active"`
	ScamType  string       `json:"scam_type"`
	History   []Turn       `json:"history"`
	Intel     *IntelRecord `json:"intel"`
	StartTime time.Time    `json:"start_time"`

	mu sync.RWMutex
}

func (s *Session) AppendTurn(turn Turn) {
	s.mu.Lock()
	s.History = append(s.History, turn)
	s.mu.Unlock()
}

func (s *Session) SetIntel(record *IntelRecord) {
	s.mu.Lock()
	s.Intel = record
	s.mu.Unlock()
}

// Snapshot returns the turn count and current intel record. The record is
// replaced wholesale on update and never mutated in place, so sharing the
// pointer is safe.
func (s *Session) Snapshot() (int, *IntelRecord) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.History), s.Intel
}

// JoinText concatenates every turn's text in conversation order,
// space-separated. This is the exact input the extraction service sees.
func JoinText(history []Turn) string {
	texts := make([]string, len(history))
	for i, turn := range history {
		texts[i] = turn.Text
	}
	return strings.Join(texts, " ")
}
