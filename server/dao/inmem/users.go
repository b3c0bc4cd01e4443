package inmem

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mcrl2-go/symbolic/server/dao"
)

func NewUsersRepository() *UsersRepository {
	return &UsersRepository{
		users:     make(map[uuid.UUID]dao.User),
		byUsername: make(map[string]uuid.UUID),
	}
}

type UsersRepository struct {
	users      map[uuid.UUID]dao.User
	byUsername map[string]uuid.UUID
}

func (r *UsersRepository) Close() error { return nil }

func (r *UsersRepository) Create(ctx context.Context, user dao.User) (dao.User, error) {
	if _, ok := r.byUsername[user.Username]; ok {
		return dao.User{}, dao.ErrConstraintViolation
	}

	newID, err := uuid.NewRandom()
	if err != nil {
		return dao.User{}, fmt.Errorf("could not generate ID: %w", err)
	}
	user.ID = newID
	user.Created = time.Now()
	user.Modified = user.Created
	user.LastLogoutTime = time.Now()

	r.users[user.ID] = user
	r.byUsername[user.Username] = user.ID
	return user, nil
}

func (r *UsersRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.User, error) {
	user, ok := r.users[id]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}
	return user, nil
}

func (r *UsersRepository) GetByUsername(ctx context.Context, username string) (dao.User, error) {
	id, ok := r.byUsername[username]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}
	return r.users[id], nil
}

func (r *UsersRepository) GetAll(ctx context.Context) ([]dao.User, error) {
	all := make([]dao.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	return all, nil
}

func (r *UsersRepository) Update(ctx context.Context, id uuid.UUID, user dao.User) (dao.User, error) {
	existing, ok := r.users[id]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}
	if user.Username != existing.Username {
		if _, ok := r.byUsername[user.Username]; ok {
			return dao.User{}, dao.ErrConstraintViolation
		}
		delete(r.byUsername, existing.Username)
		r.byUsername[user.Username] = id
	}
	user.ID = id
	user.Modified = time.Now()
	r.users[id] = user
	return user, nil
}

func (r *UsersRepository) Delete(ctx context.Context, id uuid.UUID) (dao.User, error) {
	user, ok := r.users[id]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}
	delete(r.byUsername, user.Username)
	delete(r.users, id)
	return user, nil
}
