package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	pool *pgxpool.Pool
}

func NewUsersRepo(pool *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{pool: pool}
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email, password, created_at
		 FROM users
		 ORDER BY id ASC`)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	output := make([]user.User, 0)

	for rows.Next() {
		var u user.User

		err = rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)

		if err != nil {
			return nil, err
		}

		output = append(output, u)
	}

	err = rows.Err()

	if err != nil {
		return nil, err
	}

	return output, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	var u user.User

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, password, created_at
		 FROM users
		 WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, name, email, passwordHash string) (user.User, error) {
	var u user.User

	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, email, password, created_at`,
		name, email, passwordHash,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)

	if err != nil {
		return user.User{}, err
	}

	return u, nil
}

// Update overwrites name and email only. id and created_at are
// immutable and the password column is left untouched.
func (r *UsersRepo) Update(ctx context.Context, id int64, req user.UpdateUserRequest) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users
		 SET name = $2,
		     email = $3
		 WHERE id = $1`,
		id, req.Name, req.Email,
	)

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}

	return nil
}

func (r *UsersRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)

	if err != nil {
		return err
	}

	// if no rows were deleted the id was already absent
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}

	return nil
}
