package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/service"
)

func TestExperienceModerationLifecycle(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)

	experience, err := env.experiences.Create(context.Background(), service.CreateExperienceCommand{
		ProviderID: provider.ID,
		Title:      "Atlas day hike",
		Category:   "outdoors",
		Region:     "Marrakech-Safi",
		Price:      500,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ExperienceStatusDraft, experience.Status)

	submitted, err := env.experiences.SubmitForReview(context.Background(), provider.ID, experience.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExperienceStatusPendingReview, submitted.Status)

	// Resubmitting is not allowed once in review.
	_, err = env.experiences.SubmitForReview(context.Background(), provider.ID, experience.ID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	published, err := env.experiences.Moderate(context.Background(), experience.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.ExperienceStatusPublished, published.Status)
	assert.NotNil(t, published.PublishedAt)

	// Approving an already published experience is an invalid transition.
	_, err = env.experiences.Moderate(context.Background(), experience.ID, true)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestModerationRejectionSuspends(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPendingReview)

	suspended, err := env.experiences.Moderate(context.Background(), experience.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.ExperienceStatusSuspended, suspended.Status)
}

func TestUpdateExperienceByOtherProviderFails(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, models.UserTypeProvider)
	other := env.createUser(t, models.UserTypeProvider)
	experience := env.createExperience(t, owner.ID, models.ExperienceStatusPublished)

	title := "hijacked"
	_, err := env.experiences.Update(context.Background(), service.UpdateExperienceCommand{
		ProviderID:   other.ID,
		ExperienceID: experience.ID,
		Title:        &title,
	})
	assert.ErrorIs(t, err, models.ErrExperienceNotFound)
}

func TestPriceDropNotifiesWatchers(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	watcher := env.createUser(t, models.UserTypeTraveler)
	bystander := env.createUser(t, models.UserTypeTraveler)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)

	_, err := env.favorites.Add(context.Background(), service.AddFavoriteCommand{
		UserID:            watcher.ID,
		ExperienceID:      experience.ID,
		NotifyOnPriceDrop: true,
	})
	require.NoError(t, err)
	_, err = env.favorites.Add(context.Background(), service.AddFavoriteCommand{
		UserID:       bystander.ID,
		ExperienceID: experience.ID,
	})
	require.NoError(t, err)

	newPrice := experience.Price - 100
	_, err = env.experiences.Update(context.Background(), service.UpdateExperienceCommand{
		ProviderID:   provider.ID,
		ExperienceID: experience.ID,
		Price:        &newPrice,
	})
	require.NoError(t, err)

	watcherUnread, err := env.notifications.CountUnread(context.Background(), watcher.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), watcherUnread)

	bystanderUnread, err := env.notifications.CountUnread(context.Background(), bystander.ID)
	require.NoError(t, err)
	assert.Zero(t, bystanderUnread)
}

func TestRecommendationsPreferMatchingCategoryAndBudget(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)

	match := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)

	expensive := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)
	require.NoError(t, env.db.Model(expensive).Updates(map[string]any{
		"category": "desert",
		"price":    5000,
	}).Error)

	// Draft experiences never surface in recommendations.
	env.createExperience(t, provider.ID, models.ExperienceStatusDraft)

	require.NoError(t, env.db.Create(&models.TravelerPreferences{
		UserID:            traveler.ID,
		PreferredCategory: match.Category,
		PreferredRegion:   match.Region,
		MaxBudget:         1000,
		GroupSize:         2,
	}).Error)

	ranked, err := env.discovery.RecommendedFor(context.Background(), traveler.ID, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, match.ID, ranked[0].Experience.ID)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
}
