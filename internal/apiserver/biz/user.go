package biz

import (
	"context"
	stderrors "errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/petrel-io/petrel/internal/apiserver/store"
	"github.com/petrel-io/petrel/internal/model"
	"github.com/petrel-io/petrel/pkg/errors"
)

// CreateUserRequest represents the user creation body.
type CreateUserRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=32"`
	Password    string `json:"password" validate:"required,min=8,max=64"`
	Email       string `json:"email" validate:"omitempty,email"`
	IsSuperUser bool   `json:"is_super_user"`
}

// UserService manages login accounts.
type UserService struct {
	store store.Factory
}

// NewUserService creates a new UserService.
func NewUserService(factory store.Factory) *UserService {
	return &UserService{store: factory}
}

// Create creates a user with a bcrypt-hashed password.
func (s *UserService) Create(ctx context.Context, req *CreateUserRequest) (*model.User, error) {
	if _, err := s.store.Users().Get(ctx, req.Username); err == nil {
		return nil, errors.ErrAlreadyExists.WithMessagef("user %q already exists", req.Username)
	} else if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.ErrDatabase.WithCause(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.ErrInternal.WithCause(err)
	}

	user := &model.User{
		Username:    req.Username,
		Password:    string(hashed),
		IsSuperUser: req.IsSuperUser,
		Status:      model.UserStatusEnabled,
	}
	if req.Email != "" {
		user.Email = &req.Email
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return user, nil
}

// Get retrieves a user by username.
func (s *UserService) Get(ctx context.Context, username string) (*model.User, error) {
	user, err := s.store.Users().Get(ctx, username)
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return user, nil
}

// List lists users with pagination.
func (s *UserService) List(ctx context.Context, offset, limit int) (*model.UserList, error) {
	count, items, err := s.store.Users().List(ctx, offset, limit)
	if err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return &model.UserList{TotalCount: count, Items: items}, nil
}

// UpdatePassword replaces the user's password.
func (s *UserService) UpdatePassword(ctx context.Context, username, password string) error {
	user, err := s.Get(ctx, username)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.ErrInternal.WithCause(err)
	}
	user.Password = string(hashed)

	if err := s.store.Users().Update(ctx, user); err != nil {
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}

// SetStatus enables or disables the account.
func (s *UserService) SetStatus(ctx context.Context, username string, status int) error {
	user, err := s.Get(ctx, username)
	if err != nil {
		return err
	}
	user.Status = status
	if err := s.store.Users().Update(ctx, user); err != nil {
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}

// Delete removes a user and their profile.
func (s *UserService) Delete(ctx context.Context, username string) error {
	user, err := s.Get(ctx, username)
	if err != nil {
		return err
	}
	if err := s.store.Profiles().Delete(ctx, user.ID); err != nil {
		return errors.ErrDatabase.WithCause(err)
	}
	if err := s.store.Users().Delete(ctx, username); err != nil {
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}
