package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/repository"
	"github.com/siyaha-app/siyaha-backend/internal/service"
)

func TestCertificationReviewFlow(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	admin := env.createUser(t, models.UserTypeAdmin)
	certifications := service.NewCertificationService(repository.NewGormCertificationRepository(env.db))

	submitted, err := certifications.Submit(context.Background(), service.SubmitCertificationCommand{
		ProviderID:  provider.ID,
		Name:        "National guide license",
		IssuedBy:    "Ministry of Tourism",
		DocumentURL: "https://cdn.example.com/certifications/license.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CertificationStatusPending, submitted.Status)

	_, total, err := certifications.ListPending(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	approved, err := certifications.Review(context.Background(), service.ReviewCertificationCommand{
		AdminID:         admin.ID,
		CertificationID: submitted.ID,
		Approve:         true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.CertificationStatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedByID)
	assert.Equal(t, admin.ID, *approved.ReviewedByID)
	assert.NotNil(t, approved.ReviewedAt)
}

func TestExpireOutdatedCertifications(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	certifications := service.NewCertificationService(repository.NewGormCertificationRepository(env.db))

	past := time.Now().AddDate(-1, 0, 0)
	future := time.Now().AddDate(1, 0, 0)

	require.NoError(t, env.db.Create(&models.Certification{
		ProviderID:  provider.ID,
		Name:        "First aid",
		DocumentURL: "x",
		Status:      models.CertificationStatusApproved,
		ExpiresAt:   &past,
	}).Error)
	require.NoError(t, env.db.Create(&models.Certification{
		ProviderID:  provider.ID,
		Name:        "Guide license",
		DocumentURL: "x",
		Status:      models.CertificationStatusApproved,
		ExpiresAt:   &future,
	}).Error)

	expired, err := certifications.ExpireOutdated(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	items, err := certifications.ListByProvider(context.Background(), provider.ID)
	require.NoError(t, err)
	statuses := map[string]models.CertificationStatus{}
	for _, c := range items {
		statuses[c.Name] = c.Status
	}
	assert.Equal(t, models.CertificationStatusExpired, statuses["First aid"])
	assert.Equal(t, models.CertificationStatusApproved, statuses["Guide license"])
}
