package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/service"
)

func TestAddFavoriteTwiceFails(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)

	_, err := env.favorites.Add(context.Background(), service.AddFavoriteCommand{
		UserID:       traveler.ID,
		ExperienceID: experience.ID,
	})
	require.NoError(t, err)

	_, err = env.favorites.Add(context.Background(), service.AddFavoriteCommand{
		UserID:       traveler.ID,
		ExperienceID: experience.ID,
	})
	assert.ErrorIs(t, err, models.ErrFavoriteExists)

	// A different traveler can still favorite the same experience.
	other := env.createUser(t, models.UserTypeTraveler)
	_, err = env.favorites.Add(context.Background(), service.AddFavoriteCommand{
		UserID:       other.ID,
		ExperienceID: experience.ID,
	})
	assert.NoError(t, err)
}

func TestAddFavoriteMissingExperience(t *testing.T) {
	env := newTestEnv(t)
	traveler := env.createUser(t, models.UserTypeTraveler)

	_, err := env.favorites.Add(context.Background(), service.AddFavoriteCommand{
		UserID:       traveler.ID,
		ExperienceID: 424242,
	})
	assert.ErrorIs(t, err, models.ErrExperienceNotFound)
}

func TestRemoveFavorite(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)

	_, err := env.favorites.Add(context.Background(), service.AddFavoriteCommand{
		UserID:       traveler.ID,
		ExperienceID: experience.ID,
	})
	require.NoError(t, err)

	require.NoError(t, env.favorites.Remove(context.Background(), traveler.ID, experience.ID))

	err = env.favorites.Remove(context.Background(), traveler.ID, experience.ID)
	assert.ErrorIs(t, err, models.ErrFavoriteNotFound)
}

func TestUpdateFavoriteAlerts(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)

	_, err := env.favorites.Add(context.Background(), service.AddFavoriteCommand{
		UserID:       traveler.ID,
		ExperienceID: experience.ID,
	})
	require.NoError(t, err)

	favorite, err := env.favorites.UpdateAlerts(context.Background(), traveler.ID, experience.ID, true, false)
	require.NoError(t, err)
	assert.True(t, favorite.NotifyOnPriceDrop)
	assert.False(t, favorite.NotifyOnNewDates)
}
