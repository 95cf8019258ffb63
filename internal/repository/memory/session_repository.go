package memory

import (
	"time"

	"color-notes-be/internal/entity"
	"color-notes-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(defaultTTL time.Duration) contract.SessionRepository {
	// Expired sessions are purged every 10 minutes
	c := cache.New(defaultTTL, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *entity.Session, ttl time.Duration) {
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	r.cache.Set(session.TokenId, session, ttl)
}

func (r *SessionRepository) Get(tokenId string) (*entity.Session, bool) {
	if x, found := r.cache.Get(tokenId); found {
		return x.(*entity.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(tokenId string) {
	r.cache.Delete(tokenId)
}
