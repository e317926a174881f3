package models

import (
	"time"

	"gorm.io/gorm"
)

type CertificationStatus string

const (
	CertificationStatusPending  CertificationStatus = "pending"
	CertificationStatusApproved CertificationStatus = "approved"
	CertificationStatusRejected CertificationStatus = "rejected"
	CertificationStatusExpired  CertificationStatus = "expired"
)

// IsValid reports whether the certification currently backs the provider.
func (s CertificationStatus) IsValid() bool {
	return s == CertificationStatusApproved
}

// Certification is a provider credential (guide license, first-aid
// certificate, tourism board registration) reviewed by an administrator.
type Certification struct {
	gorm.Model
	ProviderID   uint                `gorm:"not null;index" json:"providerId"`
	Provider     User                `json:"provider"`
	Name         string              `gorm:"not null" json:"name"`
	IssuedBy     string              `json:"issuedBy"`
	DocumentURL  string              `gorm:"not null" json:"documentUrl"`
	Status       CertificationStatus `gorm:"not null;default:'pending';index" json:"status"`
	ReviewedByID *uint               `json:"reviewedById,omitempty"`
	ReviewedAt   *time.Time          `json:"reviewedAt,omitempty"`
	ReviewNote   string              `json:"reviewNote,omitempty"`
	ExpiresAt    *time.Time          `json:"expiresAt,omitempty"`
}

// IsExpired reports whether the credential passed its expiry date.
func (c *Certification) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}
