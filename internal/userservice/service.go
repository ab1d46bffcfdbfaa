// Package userservice manages business logic layer of users.
package userservice

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/pkg/errorspkg"
	"github.com/go-petr/pet-wallet/pkg/passpkg"
)

// Repo provides data access layer interface needed by user service layer.
type Repo interface {
	Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error)
	GetByLogin(ctx context.Context, login string) (domain.User, error)
	GetByUID(ctx context.Context, uid int64) (domain.User, error)
	Verify(ctx context.Context, arg domain.VerifyUserParams) (domain.User, error)
	UpdatePassword(ctx context.Context, login, hashedPassword string) error
	SetOnline(ctx context.Context, uid int64, online bool) (domain.User, error)
}

// AccountCreator opens the balance account that backs every registered user.
type AccountCreator interface {
	Create(ctx context.Context, uid int64, starting domain.Balance) (domain.Balance, error)
}

// Service facilitates user service layer logic.
type Service struct {
	repo     Repo
	accounts AccountCreator
	starting domain.Balance
}

// New return user service struct to manage user bussines logic.
func New(ur Repo, ac AccountCreator, starting domain.Balance) *Service {
	return &Service{
		repo:     ur,
		accounts: ac,
		starting: starting,
	}
}

// NewUserWithoutPassword returns user with removed sensitive data.
func NewUserWithoutPassword(u domain.User) domain.UserWithoutPassword {
	return domain.UserWithoutPassword{
		UID:       u.UID,
		Login:     u.Login,
		Phone:     u.Phone,
		Age:       u.Age,
		Verified:  u.Verified,
		Online:    u.Online,
		CreatedAt: u.CreatedAt,
	}
}

// Create registers the user and opens its account with the configured
// starting balance.
func (s *Service) Create(ctx context.Context, login, password string) (domain.UserWithoutPassword, error) {
	l := zerolog.Ctx(ctx)

	var result domain.UserWithoutPassword

	hashedPassword, err := passpkg.Hash(password)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	arg := domain.CreateUserParams{
		Login:          login,
		HashedPassword: hashedPassword,
	}

	gotUser, err := s.repo.Create(ctx, arg)
	if err != nil {
		return result, err
	}

	if _, err = s.accounts.Create(ctx, gotUser.UID, s.starting); err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	return NewUserWithoutPassword(gotUser), nil
}

// CheckPassword checks if the password is valid for the given login.
func (s *Service) CheckPassword(ctx context.Context, login, pass string) (domain.UserWithoutPassword, error) {
	l := zerolog.Ctx(ctx)

	var response domain.UserWithoutPassword

	gotUser, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		return response, err
	}

	err = passpkg.Check(pass, gotUser.HashedPassword)
	if err != nil {
		l.Warn().Err(err).Send()
		return response, domain.ErrWrongPassword
	}

	return NewUserWithoutPassword(gotUser), nil
}

// Verify fills the user's verification data and sets the verified flag.
func (s *Service) Verify(ctx context.Context, arg domain.VerifyUserParams) (domain.UserWithoutPassword, error) {
	gotUser, err := s.repo.Verify(ctx, arg)
	if err != nil {
		return domain.UserWithoutPassword{}, err
	}

	return NewUserWithoutPassword(gotUser), nil
}

// ResetPassword sets a new password for the user if the provided phone
// matches the one on record.
func (s *Service) ResetPassword(ctx context.Context, login, phone, newPassword string) error {
	l := zerolog.Ctx(ctx)

	gotUser, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		return err
	}

	if gotUser.Phone != phone {
		l.Warn().Str("login", login).Err(domain.ErrPhoneMismatch).Send()
		return domain.ErrPhoneMismatch
	}

	hashedPassword, err := passpkg.Hash(newPassword)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return s.repo.UpdatePassword(ctx, login, hashedPassword)
}

// SetOnline overwrites the user's online status.
func (s *Service) SetOnline(ctx context.Context, uid int64, online bool) (domain.UserWithoutPassword, error) {
	gotUser, err := s.repo.SetOnline(ctx, uid, online)
	if err != nil {
		return domain.UserWithoutPassword{}, err
	}

	return NewUserWithoutPassword(gotUser), nil
}
