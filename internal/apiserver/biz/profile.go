package biz

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/petrel-io/petrel/internal/apiserver/store"
	"github.com/petrel-io/petrel/internal/model"
	"github.com/petrel-io/petrel/pkg/errors"
)

// ProfileService manages per-user access profiles.
type ProfileService struct {
	store store.Factory
}

// NewProfileService creates a new ProfileService.
func NewProfileService(factory store.Factory) *ProfileService {
	return &ProfileService{store: factory}
}

// Upsert creates or replaces the profile for the user. The referenced role
// must exist.
func (s *ProfileService) Upsert(ctx context.Context, userID uint64, req *model.UpsertProfileRequest) (*model.AccessProfile, error) {
	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.ErrDatabase.WithCause(err)
	}
	if _, err := s.store.Roles().Get(ctx, req.RoleCode); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrRoleNotFound
		}
		return nil, errors.ErrDatabase.WithCause(err)
	}

	for name := range req.AccessHours {
		if _, ok := weekdayNames[name]; !ok {
			return nil, errors.ErrInvalidParam.WithMessagef("unknown weekday %q", name)
		}
	}
	for _, r := range req.AccessHours {
		if r.Start < 0 || r.End > 23 || r.Start > r.End {
			return nil, errors.ErrInvalidParam.WithMessagef("invalid hour range [%d, %d]", r.Start, r.End)
		}
	}

	profile := &model.AccessProfile{
		UserID:                userID,
		RoleCode:              req.RoleCode,
		PrimaryDomain:         req.PrimaryDomain,
		SecondaryDomains:      model.StringList(req.SecondaryDomains),
		IPAllowlist:           model.StringList(req.IPAllowlist),
		AccessHours:           model.HourWindows(req.AccessHours),
		MaxConcurrentSessions: req.MaxConcurrentSessions,
	}
	if err := s.store.Profiles().Upsert(ctx, profile); err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return profile, nil
}

// Get retrieves the profile for a user.
func (s *ProfileService) Get(ctx context.Context, userID uint64) (*model.AccessProfile, error) {
	profile, err := s.store.Profiles().GetByUserID(ctx, userID)
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.ErrProfileNotFound
	}
	if err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return profile, nil
}

// Delete removes the profile for a user. The user falls back to the
// engine's fail-open defaults.
func (s *ProfileService) Delete(ctx context.Context, userID uint64) error {
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}
	if err := s.store.Profiles().Delete(ctx, userID); err != nil {
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}
