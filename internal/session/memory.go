package session

import (
	"context"
	"sync"
	"time"

	"github.com/conspiralab/conspiralab/internal/utils"
)

// MemoryStore is an in-process Store for tests and local development. It
// honors the same contract as RedisStore, including TTL expiry checked
// lazily on Get.
type MemoryStore struct {
	mu   sync.Mutex
	ttl  time.Duration
	data map[string]*memorySession
}

type memorySession struct {
	sess      Session
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, data: make(map[string]*memorySession)}
}

func (s *MemoryStore) Create(_ context.Context, userID, role string) (string, error) {
	id, err := utils.NewSessionID()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = &memorySession{
		sess:      Session{UserID: userID, Role: role, CreatedAt: time.Now().UTC()},
		expiresAt: time.Now().Add(s.ttl),
	}
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.data[id]
	if !ok {
		return nil, nil
	}
	if s.ttl > 0 && time.Now().After(rec.expiresAt) {
		delete(s.data, id)
		return nil, nil
	}
	cp := rec.sess
	return &cp, nil
}

func (s *MemoryStore) ClearIdentity(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.data[id]; ok {
		rec.sess.UserID = ""
		rec.sess.Role = ""
	}
	return nil
}

func (s *MemoryStore) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}
