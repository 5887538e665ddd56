package memory

import (
	"fmt"
	"time"

	"safetalk-hive-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionStore is the in-memory registry of honeypot sessions, keyed by chat
// id. Sessions never expire; they live until an explicit reset or process
// end. Not persisted — a restart loses all sessions.
type SessionStore struct {
	cache *cache.Cache
}

func NewSessionStore() *SessionStore {
	// NoExpiration and no janitor: eviction is only ever explicit.
	return &SessionStore{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *SessionStore) Get(chatID string) (*store.Session, bool) {
	if x, found := r.cache.Get(chatID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

// Create registers a new active session for the chat. It fails if one
// already exists; callers are expected to Get first.
func (r *SessionStore) Create(chatID, scamType string) (*store.Session, error) {
	session := &store.Session{
		ChatID:    chatID,
		Active:    true,
		ScamType:  scamType,
		History:   []store.Turn{},
		StartTime: time.Now(),
	}
	if err := r.cache.Add(chatID, session, cache.NoExpiration); err != nil {
		return nil, fmt.Errorf("session already exists for chat %s", chatID)
	}
	return session, nil
}

func (r *SessionStore) Delete(chatID string) {
	r.cache.Delete(chatID)
}

// List returns a snapshot of all sessions keyed by chat id.
func (r *SessionStore) List() map[string]*store.Session {
	items := r.cache.Items()
	out := make(map[string]*store.Session, len(items))
	for chatID, item := range items {
		out[chatID] = item.Object.(*store.Session)
	}
	return out
}

func (r *SessionStore) Count() int {
	return r.cache.ItemCount()
}
