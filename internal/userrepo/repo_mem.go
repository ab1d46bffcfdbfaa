// Package userrepo manages repository layer of users.
package userrepo

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-wallet/internal/domain"
)

// RepoMem facilitates user repository layer logic.
type RepoMem struct {
	mu      sync.RWMutex
	nextUID int64
	byLogin map[string]*domain.User
	byUID   map[int64]*domain.User
}

// NewRepoMem returns user RepoMem.
func NewRepoMem() *RepoMem {
	return &RepoMem{
		nextUID: 1,
		byLogin: make(map[string]*domain.User),
		byUID:   make(map[int64]*domain.User),
	}
}

// Create creates the user, assigns it the next uid and then returns it.
func (r *RepoMem) Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byLogin[arg.Login]; ok {
		l.Info().Str("login", arg.Login).Err(domain.ErrLoginAlreadyExists).Send()
		return domain.User{}, domain.ErrLoginAlreadyExists
	}

	u := &domain.User{
		UID:            r.nextUID,
		Login:          arg.Login,
		HashedPassword: arg.HashedPassword,
		Phone:          arg.Phone,
		Age:            arg.Age,
		CreatedAt:      time.Now().UTC(),
	}

	r.nextUID++

	r.byLogin[u.Login] = u
	r.byUID[u.UID] = u

	return *u, nil
}

// GetByLogin returns the user with the given login.
func (r *RepoMem) GetByLogin(ctx context.Context, login string) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byLogin[login]
	if !ok {
		l.Info().Str("login", login).Err(domain.ErrUserNotFound).Send()
		return domain.User{}, domain.ErrUserNotFound
	}

	return *u, nil
}

// GetByUID returns the user with the given uid.
func (r *RepoMem) GetByUID(ctx context.Context, uid int64) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byUID[uid]
	if !ok {
		l.Info().Int64("uid", uid).Err(domain.ErrUserNotFound).Send()
		return domain.User{}, domain.ErrUserNotFound
	}

	return *u, nil
}

// Verify fills the user's verification data and sets the verified flag.
func (r *RepoMem) Verify(ctx context.Context, arg domain.VerifyUserParams) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byLogin[arg.Login]
	if !ok {
		l.Info().Str("login", arg.Login).Err(domain.ErrUserNotFound).Send()
		return domain.User{}, domain.ErrUserNotFound
	}

	u.Phone = arg.Phone
	u.Age = arg.Age
	u.CardNumber = arg.CardNumber
	u.Geo = arg.Geo
	u.Verified = true

	return *u, nil
}

// UpdatePassword overwrites the user's hashed password.
func (r *RepoMem) UpdatePassword(ctx context.Context, login, hashedPassword string) error {
	l := zerolog.Ctx(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byLogin[login]
	if !ok {
		l.Info().Str("login", login).Err(domain.ErrUserNotFound).Send()
		return domain.ErrUserNotFound
	}

	u.HashedPassword = hashedPassword

	return nil
}

// SetOnline overwrites the user's online status and returns the changed user.
func (r *RepoMem) SetOnline(ctx context.Context, uid int64, online bool) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byUID[uid]
	if !ok {
		l.Info().Int64("uid", uid).Err(domain.ErrUserNotFound).Send()
		return domain.User{}, domain.ErrUserNotFound
	}

	u.Online = online

	return *u, nil
}
