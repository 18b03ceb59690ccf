package memory

import (
	"context"
	"sync"
	"time"

	"github.com/geocoder89/userhub/internal/domain/user"
)

// UsersRepo is an in-memory stand-in for the postgres repo, used in
// tests and DB-less development runs.
type UsersRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]user.User
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		nextID: 1,
		items:  make(map[int64]user.User),
	}
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.User, 0, len(r.items))

	// map order is random; callers expect insertion order by id
	for id := int64(1); id < r.nextID; id++ {
		if u, ok := r.items[id]; ok {
			out = append(out, u)
		}
	}

	return out, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[id]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, name, email, passwordHash string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := user.User{
		ID:           r.nextID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	r.items[u.ID] = u
	r.nextID++

	return u, nil
}

func (r *UsersRepo) Update(ctx context.Context, id int64, req user.UpdateUserRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[id]

	if !ok {
		return user.ErrNotFound
	}

	u.Name = req.Name
	u.Email = req.Email
	r.items[id] = u

	return nil
}

func (r *UsersRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.items[id]

	if !ok {
		return user.ErrNotFound
	}

	delete(r.items, id)

	return nil
}
