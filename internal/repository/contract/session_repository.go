package contract

import (
	"time"

	"color-notes-be/internal/entity"
)

// SessionRepository holds live sessions keyed by token id. Missing or expired ids are not found.
type SessionRepository interface {
	Save(session *entity.Session, ttl time.Duration)
	Get(tokenId string) (*entity.Session, bool)
	Delete(tokenId string)
}
