package service

import (
	"context"
	"sync"

	"safetalk-hive-be/internal/dto"
	"safetalk-hive-be/pkg/detector"
	"safetalk-hive-be/pkg/events"
	"safetalk-hive-be/pkg/persona"
	"safetalk-hive-be/pkg/store"
)

// Shared fakes for the service tests.

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type fakeDetector struct {
	verdict *detector.Verdict
	err     error
	calls   int
}

func (f *fakeDetector) Classify(ctx context.Context, message string) (*detector.Verdict, error) {
	f.calls++
	return f.verdict, f.err
}

type fakeResponder struct {
	reply       string
	err         error
	gotScamType string
	gotHistory  []store.Turn
}

func (f *fakeResponder) Reply(ctx context.Context, scammerMessage, scamType string, history []store.Turn) (*persona.Reply, error) {
	f.gotScamType = scamType
	f.gotHistory = append([]store.Turn(nil), history...)
	if f.err != nil {
		return nil, f.err
	}
	return &persona.Reply{Reply: f.reply, PersonaName: "ramesh"}, nil
}

type fakeExtractor struct {
	record *store.IntelRecord
	err    error
}

func (f *fakeExtractor) Extract(ctx context.Context, message string) (*store.IntelRecord, error) {
	return f.record, f.err
}

// fakeSender records every outbound send in order.
type fakeSender struct {
	mu    sync.Mutex
	sends []sentMessage
	err   error
}

type sentMessage struct {
	ChatID string
	Text   string
}

func (f *fakeSender) Send(ctx context.Context, chatID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, sentMessage{ChatID: chatID, Text: text})
	return f.err
}

func (f *fakeSender) sent() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sends...)
}

func (f *fakeSender) lastTo(chatID string) (sentMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.sends) - 1; i >= 0; i-- {
		if f.sends[i].ChatID == chatID {
			return f.sends[i], true
		}
	}
	return sentMessage{}, false
}

// fakeAlerts records published alerts; ordering relative to fakeSender is
// checked through the shared sequence recorder when needed.
type fakeAlerts struct {
	mu     sync.Mutex
	alerts []events.OperatorAlert
	err    error
	onPub  func()
}

func (f *fakeAlerts) PublishAlert(ctx context.Context, alert events.OperatorAlert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.onPub != nil {
		f.onPub()
	}
	f.alerts = append(f.alerts, alert)
	return f.err
}

func (f *fakeAlerts) published() []events.OperatorAlert {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]events.OperatorAlert(nil), f.alerts...)
}

type fakeFingerprints struct {
	mu      sync.Mutex
	records int
	err     error
}

func (f *fakeFingerprints) Record(ctx context.Context, chatID, scamType string, messageCount int, record *store.IntelRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records++
	return f.err
}

func (f *fakeFingerprints) Lookup(ctx context.Context, identifier string) (*dto.FingerprintLookupResponse, error) {
	return &dto.FingerprintLookupResponse{}, nil
}

func (f *fakeFingerprints) ListAll(ctx context.Context, limit int) ([]dto.ScammerProfileResponse, error) {
	return nil, nil
}

func (f *fakeFingerprints) Stats(ctx context.Context) (*dto.FingerprintStatsResponse, error) {
	return &dto.FingerprintStatsResponse{}, nil
}

func (f *fakeFingerprints) UpdateStatus(ctx context.Context, req *dto.UpdateStatusRequest) (bool, error) {
	return true, nil
}

type fakeTranscriber struct {
	text    string
	err     error
	gotPath string
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f.gotPath = audioPath
	return f.text, f.err
}

func scamVerdict() *detector.Verdict {
	return &detector.Verdict{IsScam: true, Risk: "Likely Scam", Confidence: 0.9, Reason: "asks for OTP"}
}

func safeVerdict() *detector.Verdict {
	return &detector.Verdict{IsScam: false, Risk: "Safe", Confidence: 0.1}
}
