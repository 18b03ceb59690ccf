package metered

import (
	"context"

	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/observability"
)

type UsersStore interface {
	List(ctx context.Context) ([]user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
	Create(ctx context.Context, name, email, passwordHash string) (user.User, error)
	Update(ctx context.Context, id int64, req user.UpdateUserRequest) error
	Delete(ctx context.Context, id int64) error
}

// Store decorates a users store with per-op DB metrics. Handlers see
// the same interface either way.
type Store struct {
	next UsersStore
	prom *observability.Prom
}

func Wrap(next UsersStore, prom *observability.Prom) *Store {
	return &Store{next: next, prom: prom}
}

func (s *Store) List(ctx context.Context) ([]user.User, error) {
	var out []user.User

	err := s.prom.ObserveDB("users.list", func() error {
		var err error
		out, err = s.next.List(ctx)
		return err
	})

	return out, err
}

func (s *Store) GetByID(ctx context.Context, id int64) (user.User, error) {
	var out user.User

	err := s.prom.ObserveDB("users.get", func() error {
		var err error
		out, err = s.next.GetByID(ctx, id)
		return err
	})

	return out, err
}

func (s *Store) Create(ctx context.Context, name, email, passwordHash string) (user.User, error) {
	var out user.User

	err := s.prom.ObserveDB("users.create", func() error {
		var err error
		out, err = s.next.Create(ctx, name, email, passwordHash)
		return err
	})

	return out, err
}

func (s *Store) Update(ctx context.Context, id int64, req user.UpdateUserRequest) error {
	return s.prom.ObserveDB("users.update", func() error {
		return s.next.Update(ctx, id, req)
	})
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	return s.prom.ObserveDB("users.delete", func() error {
		return s.next.Delete(ctx, id)
	})
}
