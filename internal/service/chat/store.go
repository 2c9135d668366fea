package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/zhouzirui/eureka/backend/internal/model/chat"
)

var ErrSessionNotFound = errors.New("session not found")

// Store persists sessions. Implementations store and return copies so callers
// never share mutable state with the registry.
type Store interface {
	Get(ctx context.Context, id string) (*chat.Session, error)
	Put(ctx context.Context, session *chat.Session) error
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// IdleLister is implemented by stores that can report stale sessions.
type IdleLister interface {
	IdleSince(ctx context.Context, cutoff time.Time) ([]string, error)
}

// MemoryStore is an unbounded map-backed Store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*chat.Session
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*chat.Session)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (s *MemoryStore) Put(_ context.Context, session *chat.Session) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("put session: missing id")
	}
	s.mu.Lock()
	s.sessions[session.ID] = session.Clone()
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}

func (s *MemoryStore) IdleSince(_ context.Context, cutoff time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for id, session := range s.sessions {
		if session.UpdatedAt.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// LRUStore keeps at most size sessions, evicting the least recently used.
type LRUStore struct {
	mu       sync.Mutex
	cache    *lru.Cache[string, *chat.Session]
	removing string
	onEvict  func(id string)
}

// NewLRUStore returns a bounded Store. onEvict, if set, is called for sessions
// dropped to make room, never for explicit deletes.
func NewLRUStore(size int, onEvict func(id string)) (*LRUStore, error) {
	s := &LRUStore{onEvict: onEvict}
	cache, err := lru.NewWithEvict[string, *chat.Session](size, func(id string, _ *chat.Session) {
		// Runs while s.mu is held by Put or Delete.
		if id == s.removing || s.onEvict == nil {
			return
		}
		s.onEvict(id)
	})
	if err != nil {
		return nil, fmt.Errorf("create lru store: %w", err)
	}
	s.cache = cache
	return s, nil
}

func (s *LRUStore) Get(_ context.Context, id string) (*chat.Session, error) {
	session, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (s *LRUStore) Put(_ context.Context, session *chat.Session) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("put session: missing id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Add(session.ID, session.Clone())
	return nil
}

func (s *LRUStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removing = id
	ok := s.cache.Remove(id)
	s.removing = ""
	return ok, nil
}

func (s *LRUStore) Count(_ context.Context) (int, error) {
	return s.cache.Len(), nil
}

func (s *LRUStore) IdleSince(_ context.Context, cutoff time.Time) ([]string, error) {
	var ids []string
	for _, id := range s.cache.Keys() {
		if session, ok := s.cache.Peek(id); ok && session.UpdatedAt.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// keyedMutex serializes work per session id. Entries are dropped once unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

// Lock blocks until id is free and returns its unlock func.
func (k *keyedMutex) Lock(id string) func() {
	k.mu.Lock()
	m, ok := k.locks[id]
	if !ok {
		m = &refMutex{}
		k.locks[id] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
