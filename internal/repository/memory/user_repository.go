package memory

import (
	"context"
	"strings"
	"sync"

	"color-notes-be/internal/entity"
	"color-notes-be/internal/repository/contract"

	"github.com/google/uuid"
)

type UserRepository struct {
	mu      sync.RWMutex
	byId    map[uuid.UUID]entity.User
	byEmail map[string]uuid.UUID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byId:    make(map[uuid.UUID]entity.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, taken := r.byEmail[email]; taken {
		return contract.ErrDuplicate
	}
	if _, taken := r.byId[user.Id]; taken {
		return contract.ErrDuplicate
	}
	r.byId[user.Id] = *user
	r.byEmail[email] = user.Id
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	user := r.byId[id]
	return &user, nil
}

func (r *UserRepository) FindById(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byId[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}
