package services

import (
	"context"
	"time"

	"aibot-api/internal/config"
	"aibot-api/internal/models"
	"aibot-api/internal/repository"
)

// EntitlementService owns the per-user quota counters and conversation
// history. Premium status overrides every availability check and turns
// decrements into no-ops.
type EntitlementService interface {
	GetRemaining(ctx context.Context, userID int64, feature models.Feature) (int, error)
	IsPremium(ctx context.Context, userID int64) (bool, error)
	// Consume reports whether the user may spend one use of the feature and,
	// when allowed and not premium, decrements the counter. The read and the
	// decrement are two statements; concurrent messages from the same user
	// can race, which is tolerated rather than guarded against.
	Consume(ctx context.Context, userID int64, feature models.Feature) (bool, error)
	GrantUnlimited(ctx context.Context, userID int64) error
	Usage(ctx context.Context, userID int64) (*UsageStats, error)

	AppendHistory(ctx context.Context, userID int64, role, content string) error
	// ContextHistory returns the recent turns to feed to the completion API,
	// oldest-first, bounded by the premium-aware history limit.
	ContextHistory(ctx context.Context, userID int64) ([]models.HistoryEntry, error)
	ClearHistory(ctx context.Context, userID int64) error
}

type UsageStats struct {
	UserID     int64 `json:"user_id"`
	TextUses   int   `json:"text_uses"`
	ImageUses  int   `json:"image_uses"`
	VisionUses int   `json:"vision_uses"`
	CodeUses   int   `json:"code_uses"`
	Premium    bool  `json:"premium"`
}

type entitlementService struct {
	userRepo    repository.UserRepository
	historyRepo repository.HistoryRepository
	quotaCfg    *config.QuotaConfig
}

func NewEntitlementService(
	userRepo repository.UserRepository,
	historyRepo repository.HistoryRepository,
	quotaCfg *config.QuotaConfig,
) EntitlementService {
	return &entitlementService{
		userRepo:    userRepo,
		historyRepo: historyRepo,
		quotaCfg:    quotaCfg,
	}
}

func (s *entitlementService) GetRemaining(ctx context.Context, userID int64, feature models.Feature) (int, error) {
	user, err := s.userRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Remaining(feature), nil
}

func (s *entitlementService) IsPremium(ctx context.Context, userID int64) (bool, error) {
	user, err := s.userRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.Premium, nil
}

func (s *entitlementService) Consume(ctx context.Context, userID int64, feature models.Feature) (bool, error) {
	user, err := s.userRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return false, err
	}

	if user.Premium {
		return true, nil
	}
	if user.Remaining(feature) <= 0 {
		return false, nil
	}

	if err := s.userRepo.DecrementQuota(ctx, userID, feature); err != nil {
		return false, err
	}
	return true, nil
}

func (s *entitlementService) GrantUnlimited(ctx context.Context, userID int64) error {
	// Payment can be the user's very first event; make sure the row exists.
	if _, err := s.userRepo.GetOrCreate(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.GrantUnlimited(ctx, userID)
}

func (s *entitlementService) Usage(ctx context.Context, userID int64) (*UsageStats, error) {
	user, err := s.userRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UsageStats{
		UserID:     user.ID,
		TextUses:   user.TextUses,
		ImageUses:  user.ImageUses,
		VisionUses: user.VisionUses,
		CodeUses:   user.CodeUses,
		Premium:    user.Premium,
	}, nil
}

func (s *entitlementService) AppendHistory(ctx context.Context, userID int64, role, content string) error {
	return s.historyRepo.Append(ctx, &models.HistoryEntry{
		UserID:    userID,
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
}

func (s *entitlementService) ContextHistory(ctx context.Context, userID int64) ([]models.HistoryEntry, error) {
	premium, err := s.IsPremium(ctx, userID)
	if err != nil {
		return nil, err
	}

	limit := s.quotaCfg.HistoryLimit
	if premium {
		limit = s.quotaCfg.PremiumHistoryLimit
	}
	return s.historyRepo.Recent(ctx, userID, limit)
}

func (s *entitlementService) ClearHistory(ctx context.Context, userID int64) error {
	return s.historyRepo.Clear(ctx, userID)
}
