package repository

import (
	"context"

	"aibot-api/internal/models"
	"aibot-api/internal/pkg/errors"

	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByUserID(ctx context.Context, userID int64) ([]*models.Payment, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return errors.Wrap(err, "failed to record payment")
	}
	return nil
}

func (r *paymentRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch payments")
	}
	return payments, nil
}
