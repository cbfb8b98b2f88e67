package repository

import (
	"context"
	"time"

	"aibot-api/internal/config"
	"aibot-api/internal/models"
	"aibot-api/internal/pkg/errors"

	"gorm.io/gorm"
)

type UserRepository interface {
	GetOrCreate(ctx context.Context, id int64) (*models.User, error)
	DecrementQuota(ctx context.Context, id int64, feature models.Feature) error
	GrantUnlimited(ctx context.Context, id int64) error
}

type userRepository struct {
	db       *gorm.DB
	quotaCfg *config.QuotaConfig
}

func NewUserRepository(db *gorm.DB, quotaCfg *config.QuotaConfig) UserRepository {
	return &userRepository{db: db, quotaCfg: quotaCfg}
}

// GetOrCreate fetches the user row, lazily creating it with the default
// allowances on first contact.
func (r *userRepository) GetOrCreate(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "id = ?", id)
	if result.Error == nil {
		return &user, nil
	}
	if result.Error != gorm.ErrRecordNotFound {
		return nil, errors.Wrap(result.Error, "failed to get user")
	}

	user = models.User{
		ID:         id,
		TextUses:   r.quotaCfg.Defaults[models.FeatureText],
		ImageUses:  r.quotaCfg.Defaults[models.FeatureImage],
		VisionUses: r.quotaCfg.Defaults[models.FeatureVision],
		CodeUses:   r.quotaCfg.Defaults[models.FeatureCode],
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}
	return &user, nil
}

// DecrementQuota unconditionally takes one use off the feature's counter.
// The counter is allowed to go negative; callers gate on availability first.
func (r *userRepository) DecrementQuota(ctx context.Context, id int64, feature models.Feature) error {
	col := feature.Column()
	if col == "" {
		return errors.ErrUnknownFeature
	}

	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn(col, gorm.Expr(col+" - 1"))

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to decrement quota")
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}

// GrantUnlimited sets every counter to the unlimited sentinel and marks the
// user premium. Calling it again is a no-op by effect.
func (r *userRepository) GrantUnlimited(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"text_uses":   models.UnlimitedUses,
			"image_uses":  models.UnlimitedUses,
			"vision_uses": models.UnlimitedUses,
			"code_uses":   models.UnlimitedUses,
			"premium":     true,
			"updated_at":  time.Now(),
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to grant unlimited access")
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}
