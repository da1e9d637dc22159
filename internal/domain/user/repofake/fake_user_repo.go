package fakeuserrepo

import (
	"context"
	"sync"
	"time"

	"github.com/nishantmakwanaa/clothing-store/internal/domain/user"
)

var _ user.Repository = (*FakeUserRepo)(nil)

// FakeUserRepo is an in-memory user.Repository for tests
type FakeUserRepo struct {
	lock   sync.RWMutex
	users  map[uint]*user.User
	nextID uint
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{users: make(map[uint]*user.User)}
}

func (r *FakeUserRepo) Create(ctx context.Context, u *user.User) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.nextID++
	u.ID = r.nextID
	u.Email = user.NormalizeEmail(u.Email)
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	stored := *u
	r.users[u.ID] = &stored
	return nil
}

func (r *FakeUserRepo) GetByID(ctx context.Context, id uint) (*user.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	u, ok := r.users[id]
	if !ok || !u.IsActive {
		return nil, user.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *FakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	email = user.NormalizeEmail(email)
	for _, u := range r.users {
		if u.Email == email && u.IsActive {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *FakeUserRepo) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	for col, v := range updates {
		switch col {
		case "first_name":
			u.FirstName = v.(string)
		case "last_name":
			u.LastName = v.(string)
		case "phone":
			u.Phone = v.(string)
		case "password":
			u.Password = v.(string)
		}
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}
