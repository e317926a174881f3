package service

import (
	"context"
	"fmt"
	"time"

	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/repository"
)

type SubmitCertificationCommand struct {
	ProviderID  uint
	Name        string
	IssuedBy    string
	DocumentURL string
	ExpiresAt   *time.Time
}

type ReviewCertificationCommand struct {
	AdminID         uint
	CertificationID uint
	Approve         bool
	Note            string
}

type CertificationService struct {
	certifications repository.CertificationRepository
}

func NewCertificationService(certifications repository.CertificationRepository) *CertificationService {
	return &CertificationService{certifications: certifications}
}

func (s *CertificationService) Submit(ctx context.Context, cmd SubmitCertificationCommand) (*models.Certification, error) {
	if cmd.Name == "" || cmd.DocumentURL == "" {
		return nil, fmt.Errorf("%w: name and document are required", models.ErrValidation)
	}

	certification := &models.Certification{
		ProviderID:  cmd.ProviderID,
		Name:        cmd.Name,
		IssuedBy:    cmd.IssuedBy,
		DocumentURL: cmd.DocumentURL,
		Status:      models.CertificationStatusPending,
		ExpiresAt:   cmd.ExpiresAt,
	}
	if err := s.certifications.Create(ctx, certification); err != nil {
		return nil, fmt.Errorf("submit certification: %w", err)
	}
	return certification, nil
}

func (s *CertificationService) Review(ctx context.Context, cmd ReviewCertificationCommand) (*models.Certification, error) {
	certification, err := s.certifications.FindByID(ctx, cmd.CertificationID)
	if err != nil {
		return nil, err
	}
	if certification.Status != models.CertificationStatusPending {
		return nil, fmt.Errorf("%w: certification already reviewed", models.ErrInvalidTransition)
	}

	status := models.CertificationStatusRejected
	if cmd.Approve {
		status = models.CertificationStatusApproved
	}
	return s.certifications.Review(ctx, certification.ID, cmd.AdminID, status, cmd.Note)
}

func (s *CertificationService) ListByProvider(ctx context.Context, providerID uint) ([]models.Certification, error) {
	return s.certifications.ListByProvider(ctx, providerID)
}

func (s *CertificationService) ListPending(ctx context.Context, page, perPage int) ([]models.Certification, int64, error) {
	page, perPage = normalizePage(page, perPage)
	return s.certifications.ListPending(ctx, page, perPage)
}

// ExpireOutdated sweeps approved certifications past their expiry date.
func (s *CertificationService) ExpireOutdated(ctx context.Context) (int64, error) {
	return s.certifications.ExpireOutdated(ctx, time.Now().UTC())
}
