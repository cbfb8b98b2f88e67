package repository

import (
	"context"
	"fmt"
	"testing"

	"aibot-api/internal/config"
	"aibot-api/internal/models"
	"aibot-api/internal/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens a throwaway in-memory database. Each test gets its own DSN so
// the shared cache does not leak rows between tests.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.HistoryEntry{}, &models.Payment{}))
	return db
}

func TestGetOrCreate_NewUserGetsDefaults(t *testing.T) {
	repo := NewUserRepository(testDB(t), config.NewQuotaConfig())

	user, err := repo.GetOrCreate(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, 20, user.TextUses)
	assert.Equal(t, 10, user.ImageUses)
	assert.Equal(t, 3, user.VisionUses)
	assert.Equal(t, 5, user.CodeUses)
	assert.False(t, user.Premium)
}

func TestGetOrCreate_ExistingUserKeepsState(t *testing.T) {
	repo := NewUserRepository(testDB(t), config.NewQuotaConfig())
	ctx := context.Background()

	_, err := repo.GetOrCreate(ctx, 42)
	require.NoError(t, err)
	require.NoError(t, repo.DecrementQuota(ctx, 42, models.FeatureText))

	user, err := repo.GetOrCreate(ctx, 42)

	require.NoError(t, err)
	assert.Equal(t, 19, user.TextUses)
}

func TestDecrementQuota_CountersGoNegative(t *testing.T) {
	repo := NewUserRepository(testDB(t), config.NewQuotaConfig())
	ctx := context.Background()

	_, err := repo.GetOrCreate(ctx, 7)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		require.NoError(t, repo.DecrementQuota(ctx, 7, models.FeatureVision))
	}

	user, err := repo.GetOrCreate(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, -1, user.VisionUses)
}

func TestDecrementQuota_UnknownFeature(t *testing.T) {
	repo := NewUserRepository(testDB(t), config.NewQuotaConfig())

	err := repo.DecrementQuota(context.Background(), 7, models.Feature("video"))

	assert.ErrorIs(t, err, errors.ErrUnknownFeature)
}

func TestDecrementQuota_MissingUser(t *testing.T) {
	repo := NewUserRepository(testDB(t), config.NewQuotaConfig())

	err := repo.DecrementQuota(context.Background(), 404, models.FeatureText)

	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestGrantUnlimited_SetsAllCountersAndPremium(t *testing.T) {
	repo := NewUserRepository(testDB(t), config.NewQuotaConfig())
	ctx := context.Background()

	_, err := repo.GetOrCreate(ctx, 9)
	require.NoError(t, err)
	require.NoError(t, repo.GrantUnlimited(ctx, 9))

	user, err := repo.GetOrCreate(ctx, 9)
	require.NoError(t, err)
	assert.True(t, user.Premium)
	for _, feature := range models.AllFeatures {
		assert.Equal(t, models.UnlimitedUses, user.Remaining(feature))
	}

	// Granting twice changes nothing.
	require.NoError(t, repo.GrantUnlimited(ctx, 9))
	again, err := repo.GetOrCreate(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, user.TextUses, again.TextUses)
}

func TestGrantUnlimited_MissingUser(t *testing.T) {
	repo := NewUserRepository(testDB(t), config.NewQuotaConfig())

	err := repo.GrantUnlimited(context.Background(), 404)

	assert.ErrorIs(t, err, errors.ErrNotFound)
}
