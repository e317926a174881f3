package service_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/siyaha-app/siyaha-backend/internal/database"
	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/repository"
	"github.com/siyaha-app/siyaha-backend/internal/service"
)

// testEnv wires real repositories over an in-memory database so tests
// exercise the same transaction paths as production.
type testEnv struct {
	db *gorm.DB

	bookings      *service.BookingService
	reviews       *service.ReviewService
	disputes      *service.DisputeService
	payments      *service.PaymentService
	favorites     *service.FavoriteService
	conversations *service.ConversationService
	experiences   *service.ExperienceService
	discovery     *service.DiscoveryService
	notifications *service.NotificationService

	bookingRepo repository.BookingRepository
	reviewRepo  repository.ReviewRepository
	paymentRepo repository.PaymentRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	bookingRepo := repository.NewGormBookingRepository(db)
	experienceRepo := repository.NewGormExperienceRepository(db)
	reviewRepo := repository.NewGormReviewRepository(db)
	disputeRepo := repository.NewGormDisputeRepository(db)
	paymentRepo := repository.NewGormPaymentRepository(db)
	favoriteRepo := repository.NewGormFavoriteRepository(db)
	conversationRepo := repository.NewGormConversationRepository(db)
	notificationRepo := repository.NewGormNotificationRepository(db)
	userRepo := repository.NewGormUserRepository(db)
	discoveryRepo := repository.NewGormDiscoveryRepository(db)

	notifications := service.NewNotificationService(notificationRepo, nil)

	return &testEnv{
		db:            db,
		bookings:      service.NewBookingService(bookingRepo, experienceRepo, userRepo, notifications, nil),
		reviews:       service.NewReviewService(reviewRepo, bookingRepo, notifications),
		disputes:      service.NewDisputeService(disputeRepo, bookingRepo, notifications),
		payments:      service.NewPaymentService(paymentRepo, notifications),
		favorites:     service.NewFavoriteService(favoriteRepo, experienceRepo),
		conversations: service.NewConversationService(conversationRepo, notifications),
		experiences:   service.NewExperienceService(experienceRepo, favoriteRepo, notifications),
		discovery:     service.NewDiscoveryService(discoveryRepo, userRepo, nil),
		notifications: notifications,
		bookingRepo:   bookingRepo,
		reviewRepo:    reviewRepo,
		paymentRepo:   paymentRepo,
	}
}

func (e *testEnv) createUser(t *testing.T, userType models.UserType) *models.User {
	t.Helper()
	user := &models.User{
		Username:     fmt.Sprintf("%s-%d", userType, time.Now().UnixNano()),
		Email:        fmt.Sprintf("%s-%d@example.com", userType, time.Now().UnixNano()),
		PasswordHash: "x",
		UserType:     userType,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createExperience(t *testing.T, providerID uint, status models.ExperienceStatus) *models.Experience {
	t.Helper()
	experience := &models.Experience{
		ProviderID:      providerID,
		Title:           "Medina food tour",
		Category:        "gastronomy",
		Region:          "Marrakech-Safi",
		City:            "Marrakech",
		Price:           350,
		Currency:        "MAD",
		MaxParticipants: 8,
		Status:          status,
	}
	require.NoError(t, e.db.Create(experience).Error)
	return experience
}

func (e *testEnv) createBooking(t *testing.T, travelerID uint, experience *models.Experience, status models.BookingStatus) *models.Booking {
	t.Helper()
	booking := &models.Booking{
		ExperienceID:  experience.ID,
		TravelerID:    travelerID,
		ProviderID:    experience.ProviderID,
		Status:        status,
		BookingDate:   time.Now().AddDate(0, 0, 7),
		Participants:  2,
		TotalAmount:   experience.Price * 2,
		Currency:      experience.Currency,
		PaymentStatus: models.PaymentStatusPending,
	}
	require.NoError(t, e.db.Create(booking).Error)
	return booking
}

func (e *testEnv) createPayment(t *testing.T, booking *models.Booking, status models.PaymentStatus) *models.Payment {
	t.Helper()
	payment := &models.Payment{
		BookingID:  booking.ID,
		TravelerID: booking.TravelerID,
		ProviderID: booking.ProviderID,
		Method:     "card",
		Amount:     booking.TotalAmount,
		Currency:   booking.Currency,
		Status:     status,
	}
	require.NoError(t, e.db.Create(payment).Error)
	return payment
}
