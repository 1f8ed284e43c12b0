package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/petrel-io/petrel/internal/model"
)

type profiles struct {
	db *gorm.DB
}

func newProfiles(db *gorm.DB) *profiles {
	return &profiles{db}
}

// Upsert creates the profile or replaces the existing one for the user.
func (p *profiles) Upsert(ctx context.Context, profile *model.AccessProfile) error {
	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"role_code", "primary_domain", "secondary_domains",
			"ip_allowlist", "access_hours", "max_concurrent_sessions",
			"updated_at",
		}),
	}).Create(profile).Error
}

// GetByUserID retrieves the profile for a user.
func (p *profiles) GetByUserID(ctx context.Context, userID uint64) (*model.AccessProfile, error) {
	var profile model.AccessProfile
	if err := p.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateLastLoginIP records the IP of the latest login. A no-op when the
// user has no profile or the IP is unchanged.
func (p *profiles) UpdateLastLoginIP(ctx context.Context, userID uint64, ip string) error {
	return p.db.WithContext(ctx).Model(&model.AccessProfile{}).
		Where("user_id = ? AND last_login_ip <> ?", userID, ip).
		Update("last_login_ip", ip).Error
}

// Delete removes the profile for a user.
func (p *profiles) Delete(ctx context.Context, userID uint64) error {
	return p.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.AccessProfile{}).Error
}
