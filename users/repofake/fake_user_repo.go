package fakeuserrepo

import (
	"sync"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-video-client/internal/errors"
	"github.com/jrsteele09/go-video-client/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users    map[string]*users.User
	emailIds map[string]string // email to user id
	lock     sync.RWMutex
}

func NewFakeUserRepo() users.UserRepo {
	return &FakeUserRepo{
		users:    make(map[string]*users.User),
		emailIds: make(map[string]string),
	}
}

func (ur *FakeUserRepo) Upsert(user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	email := users.NormaliseEmail(user.Email)
	if existingID, ok := ur.emailIds[email]; ok && existingID != user.ID {
		return apperrors.ErrEmailRegistered
	}
	user.Email = email
	ur.users[user.ID] = user
	ur.emailIds[email] = user.ID
	return nil
}

func (ur *FakeUserRepo) Delete(email string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	email = users.NormaliseEmail(email)
	userID, ok := ur.emailIds[email]
	if !ok {
		return apperrors.ErrNotFound
	}
	delete(ur.emailIds, email)
	delete(ur.users, userID)
	return nil
}

func (ur *FakeUserRepo) GetByEmail(email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	userID, ok := ur.emailIds[users.NormaliseEmail(email)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return ur.users[userID], nil
}

func (ur *FakeUserRepo) GetByID(id string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return user, nil
}

func (ur *FakeUserRepo) SetLastLogin(email string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	userID, ok := ur.emailIds[users.NormaliseEmail(email)]
	if !ok {
		return apperrors.ErrNotFound
	}
	ur.users[userID].LastLogin = time.Now().UTC()
	return nil
}
