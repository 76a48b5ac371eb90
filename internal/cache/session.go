package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/soaringjerry/Candor/internal/models"
)

const sessionPrefix = "candor:session:"

// sessionKey hashes the cookie value so the cache never holds a usable
// session id.
func sessionKey(id string) string {
	sum := blake2b.Sum256([]byte(id))
	return sessionPrefix + hex.EncodeToString(sum[:])
}

// SessionStore keeps session records as JSON under a prefixed key.
type SessionStore struct {
	c   Cache
	ttl time.Duration
}

func NewSessionStore(c Cache, ttl time.Duration) *SessionStore {
	return &SessionStore{c: c, ttl: ttl}
}

func (s *SessionStore) Save(ctx context.Context, sess models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	s.c.Set(ctx, sessionKey(sess.ID), data, s.ttl)
	return nil
}

func (s *SessionStore) Load(ctx context.Context, id string) (models.Session, bool) {
	data, ok := s.c.Get(ctx, sessionKey(id))
	if !ok {
		return models.Session{}, false
	}
	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return models.Session{}, false
	}
	return sess, true
}

func (s *SessionStore) Delete(ctx context.Context, id string) {
	s.c.Delete(ctx, sessionKey(id))
}
