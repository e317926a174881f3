package models

import "errors"

// Domain error kinds. Handlers map these to HTTP statuses at the boundary;
// ownership failures deliberately surface as not-found.
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrExperienceNotFound    = errors.New("experience not found")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrReviewNotFound        = errors.New("review not found")
	ErrDisputeNotFound       = errors.New("dispute not found")
	ErrConversationNotFound  = errors.New("conversation not found")
	ErrFavoriteNotFound      = errors.New("favorite not found")
	ErrCertificationNotFound = errors.New("certification not found")
	ErrContentNotFound       = errors.New("content not found")
	ErrNotificationNotFound  = errors.New("notification not found")
)

var (
	ErrReviewExists   = errors.New("review already exists for this booking")
	ErrFavoriteExists = errors.New("experience is already in favorites")
	ErrDisputeExists  = errors.New("booking already has an active dispute")
	ErrEmailTaken     = errors.New("email is already registered")
)

var (
	ErrBookingNotCancellable = errors.New("booking can no longer be cancelled")
	ErrInvalidTransition     = errors.New("status transition not allowed")
	ErrBookingNotEligible    = errors.New("booking is not eligible for this operation")
	ErrReviewLocked          = errors.New("review can no longer be edited")
	ErrPaymentFinal          = errors.New("payment is in a final state")
	ErrDisputeResolved       = errors.New("dispute is already resolved")
	ErrExperienceNotBookable = errors.New("experience is not open for booking")
)

var ErrValidation = errors.New("validation error")
