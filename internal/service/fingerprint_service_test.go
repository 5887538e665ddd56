package service

import (
	"context"
	"encoding/json"
	"testing"

	"safetalk-hive-be/internal/model"
	"safetalk-hive-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

type memFingerprintRepo struct {
	scammers    map[string]*model.Scammer
	identifiers map[string]model.ScammerIdentifier // keyed type+"|"+value
	sessions    []*model.ScammerSession
}

func newMemFingerprintRepo() *memFingerprintRepo {
	return &memFingerprintRepo{
		scammers:    make(map[string]*model.Scammer),
		identifiers: make(map[string]model.ScammerIdentifier),
	}
}

func (r *memFingerprintRepo) FindByID(ctx context.Context, fingerprint string) (*model.Scammer, error) {
	return r.scammers[fingerprint], nil
}

func (r *memFingerprintRepo) FindByIdentifier(ctx context.Context, value string) (*model.Scammer, error) {
	for _, ident := range r.identifiers {
		if ident.Value == value {
			return r.scammers[ident.ScammerID], nil
		}
	}
	return nil, nil
}

func (r *memFingerprintRepo) Save(ctx context.Context, scammer *model.Scammer) error {
	copied := *scammer
	r.scammers[scammer.ID] = &copied
	return nil
}

func (r *memFingerprintRepo) AddIdentifiers(ctx context.Context, identifiers []model.ScammerIdentifier) error {
	for _, ident := range identifiers {
		key := ident.Type + "|" + ident.Value
		if _, exists := r.identifiers[key]; !exists {
			r.identifiers[key] = ident
		}
	}
	return nil
}

func (r *memFingerprintRepo) AddSession(ctx context.Context, session *model.ScammerSession) error {
	r.sessions = append(r.sessions, session)
	return nil
}

func (r *memFingerprintRepo) ListByThreat(ctx context.Context, limit int) ([]model.Scammer, error) {
	var out []model.Scammer
	for _, s := range r.scammers {
		out = append(out, *s)
	}
	return out, nil
}

func (r *memFingerprintRepo) Stats(ctx context.Context) (int64, int64, map[string]int64, error) {
	byStatus := make(map[string]int64)
	for _, s := range r.scammers {
		byStatus[s.Status]++
	}
	return int64(len(r.scammers)), int64(len(r.identifiers)), byStatus, nil
}

func (r *memFingerprintRepo) UpdateStatus(ctx context.Context, fingerprint, status, notes string) (bool, error) {
	s, ok := r.scammers[fingerprint]
	if !ok {
		return false, nil
	}
	s.Status = status
	s.Notes = notes
	return true, nil
}

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint([]string{"1@upi", "+919812345678"})
	b := Fingerprint([]string{"+919812345678", "1@upi"}) // order independent
	c := Fingerprint([]string{"1@UPI", " +919812345678 "}) // case/space independent
	d := Fingerprint([]string{"1@upi", "1@upi", "+919812345678"}) // dedup

	assert.Len(t, a, 16)
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
	assert.Equal(t, a, d)
	assert.NotEqual(t, a, Fingerprint([]string{"1@upi"}))
}

func TestFingerprintRecord_CreatesProfile(t *testing.T) {
	repo := newMemFingerprintRepo()
	svc := NewFingerprintService(repo, nopLogger{})

	record := &store.IntelRecord{
		UPIIDs:             []string{"1@upi"},
		PhoneNumbers:       []string{"+919812345678"},
		SuspiciousKeywords: []string{"urgent"},
	}

	err := svc.Record(context.Background(), "chat-1@c.us", store.ScamTypeUPIFraud, 4, record)
	assert.NoError(t, err)

	fp := Fingerprint(record.Identifiers())
	scammer := repo.scammers[fp]
	assert.NotNil(t, scammer)
	assert.Equal(t, 1, scammer.EncounterCount)
	assert.Equal(t, model.ScammerStatusActive, scammer.Status)

	var scamTypes []string
	assert.NoError(t, json.Unmarshal(scammer.ScamTypes, &scamTypes))
	assert.Equal(t, []string{store.ScamTypeUPIFraud}, scamTypes)

	// upi + phone + chat_id rows; keywords are not identifiers.
	assert.Len(t, repo.identifiers, 3)
	assert.Len(t, repo.sessions, 1)
	assert.Equal(t, "chat-1@c.us", repo.sessions[0].ChatID)
	assert.Equal(t, 4, repo.sessions[0].MessageCount)
}

func TestFingerprintRecord_KeywordsOnlyIsNoOp(t *testing.T) {
	repo := newMemFingerprintRepo()
	svc := NewFingerprintService(repo, nopLogger{})

	err := svc.Record(context.Background(), "chat-1", store.ScamTypeDefault, 2, &store.IntelRecord{
		SuspiciousKeywords: []string{"urgent", "otp"},
	})

	assert.NoError(t, err)
	assert.Empty(t, repo.scammers)
	assert.Empty(t, repo.sessions)
}

func TestFingerprintRecord_ReencounterUpdatesProfile(t *testing.T) {
	repo := newMemFingerprintRepo()
	svc := NewFingerprintService(repo, nopLogger{})

	record := &store.IntelRecord{UPIIDs: []string{"1@upi"}}

	assert.NoError(t, svc.Record(context.Background(), "chat-1", store.ScamTypeUPIFraud, 2, record))
	assert.NoError(t, svc.Record(context.Background(), "chat-2", store.ScamTypeLottery, 6, record))

	fp := Fingerprint(record.Identifiers())
	scammer := repo.scammers[fp]
	assert.Equal(t, 2, scammer.EncounterCount)

	var scamTypes []string
	assert.NoError(t, json.Unmarshal(scammer.ScamTypes, &scamTypes))
	assert.ElementsMatch(t, []string{store.ScamTypeUPIFraud, store.ScamTypeLottery}, scamTypes)

	assert.Len(t, repo.sessions, 2)
	assert.Len(t, repo.scammers, 1, "same identifiers must map to one profile")
}

func TestFingerprintRecord_ThreatScoreCapped(t *testing.T) {
	repo := newMemFingerprintRepo()
	svc := NewFingerprintService(repo, nopLogger{})

	record := &store.IntelRecord{UPIIDs: []string{"1@upi", "2@upi", "3@upi", "4@upi", "5@upi"}}

	for i := 0; i < 5; i++ {
		chat := string(rune('a'+i)) + "-chat"
		assert.NoError(t, svc.Record(context.Background(), chat, store.ScamTypeUPIFraud, 2, record))
	}

	fp := Fingerprint(record.Identifiers())
	assert.Equal(t, float64(10), repo.scammers[fp].ThreatScore)
}

func TestFingerprintLookup(t *testing.T) {
	repo := newMemFingerprintRepo()
	svc := NewFingerprintService(repo, nopLogger{})

	record := &store.IntelRecord{UPIIDs: []string{"1@upi"}}
	assert.NoError(t, svc.Record(context.Background(), "chat-1", store.ScamTypeUPIFraud, 2, record))

	res, err := svc.Lookup(context.Background(), "1@upi")
	assert.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, Fingerprint(record.Identifiers()), res.Scammer.Fingerprint)

	res, err = svc.Lookup(context.Background(), "unknown@upi")
	assert.NoError(t, err)
	assert.False(t, res.Found)
	assert.Nil(t, res.Scammer)
}
