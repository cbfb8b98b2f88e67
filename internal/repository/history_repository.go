package repository

import (
	"context"

	"aibot-api/internal/models"
	"aibot-api/internal/pkg/errors"

	"gorm.io/gorm"
)

type HistoryRepository interface {
	Append(ctx context.Context, entry *models.HistoryEntry) error
	Recent(ctx context.Context, userID int64, limit int) ([]models.HistoryEntry, error)
	Clear(ctx context.Context, userID int64) error
}

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Append(ctx context.Context, entry *models.HistoryEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return errors.Wrap(err, "failed to append history entry")
	}
	return nil
}

// Recent returns at most limit entries, the most recent ones by timestamp,
// ordered oldest-first so they can be fed to the completion API as-is.
func (r *historyRepository) Recent(ctx context.Context, userID int64, limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	var entries []models.HistoryEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch history")
	}

	// Query is newest-first for the LIMIT; flip to chronological order.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

func (r *historyRepository) Clear(ctx context.Context, userID int64) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.HistoryEntry{}).Error
	if err != nil {
		return errors.Wrap(err, "failed to clear history")
	}
	return nil
}
