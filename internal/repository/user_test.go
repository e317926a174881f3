package repository_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/siyaha-app/siyaha-backend/internal/database"
	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	return db
}

func TestCreateUserRejectsTakenEmail(t *testing.T) {
	users := repository.NewGormUserRepository(newTestDB(t))
	ctx := context.Background()

	first := &models.User{
		Username:     "aicha",
		Email:        "aicha@example.com",
		PasswordHash: "x",
		UserType:     models.UserTypeTraveler,
	}
	require.NoError(t, users.Create(ctx, first))
	assert.NotEmpty(t, first.Token)

	err := users.Create(ctx, &models.User{
		Username:     "aicha2",
		Email:        "aicha@example.com",
		PasswordHash: "x",
		UserType:     models.UserTypeProvider,
	})
	assert.ErrorIs(t, err, models.ErrEmailTaken)
}

func TestFindUserByEmail(t *testing.T) {
	users := repository.NewGormUserRepository(newTestDB(t))
	ctx := context.Background()

	user := &models.User{
		Username:     "youssef",
		Email:        "youssef@example.com",
		PasswordHash: "x",
		UserType:     models.UserTypeProvider,
	}
	require.NoError(t, users.Create(ctx, user))

	found, err := users.FindByEmail(ctx, "youssef@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = users.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestPreferencesRoundTrip(t *testing.T) {
	users := repository.NewGormUserRepository(newTestDB(t))
	ctx := context.Background()

	user := &models.User{
		Username:     "sara",
		Email:        "sara@example.com",
		PasswordHash: "x",
		UserType:     models.UserTypeTraveler,
	}
	require.NoError(t, users.Create(ctx, user))

	// No preferences saved yet: nil, not an error.
	prefs, err := users.GetPreferences(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, prefs)

	require.NoError(t, users.SavePreferences(ctx, &models.TravelerPreferences{
		UserID:            user.ID,
		PreferredCategory: "gastronomy",
		MaxBudget:         800,
		GroupSize:         2,
	}))

	prefs, err = users.GetPreferences(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, prefs)
	assert.Equal(t, "gastronomy", prefs.PreferredCategory)

	// Saving again updates in place.
	prefs.MaxBudget = 1200
	require.NoError(t, users.SavePreferences(ctx, prefs))
	prefs, err = users.GetPreferences(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, prefs.MaxBudget)
}

func TestSuspendUser(t *testing.T) {
	users := repository.NewGormUserRepository(newTestDB(t))
	ctx := context.Background()

	user := &models.User{
		Username:     "brahim",
		Email:        "brahim@example.com",
		PasswordHash: "x",
		UserType:     models.UserTypeProvider,
	}
	require.NoError(t, users.Create(ctx, user))

	require.NoError(t, users.SetSuspended(ctx, user.ID, true))
	found, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, found.IsSuspended)

	err = users.SetSuspended(ctx, 9999, true)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}
