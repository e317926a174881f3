package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/siyaha-app/siyaha-backend/internal/database"
	"github.com/siyaha-app/siyaha-backend/internal/handlers"
	"github.com/siyaha-app/siyaha-backend/internal/middleware"
	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/repository"
	"github.com/siyaha-app/siyaha-backend/internal/service"
	"github.com/siyaha-app/siyaha-backend/internal/services"
	"github.com/siyaha-app/siyaha-backend/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	hub := services.NewHub()
	go hub.Run()

	// Repositories
	userRepo := repository.NewGormUserRepository(db)
	experienceRepo := repository.NewGormExperienceRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	paymentRepo := repository.NewGormPaymentRepository(db)
	reviewRepo := repository.NewGormReviewRepository(db)
	disputeRepo := repository.NewGormDisputeRepository(db)
	favoriteRepo := repository.NewGormFavoriteRepository(db)
	conversationRepo := repository.NewGormConversationRepository(db)
	notificationRepo := repository.NewGormNotificationRepository(db)
	certificationRepo := repository.NewGormCertificationRepository(db)
	contentRepo := repository.NewGormContentRepository(db)
	discoveryRepo := repository.NewGormDiscoveryRepository(db)

	// Services
	notificationSvc := service.NewNotificationService(notificationRepo, hub)
	bookingSvc := service.NewBookingService(bookingRepo, experienceRepo, userRepo, notificationSvc, utils.SMTPMailer{})
	reviewSvc := service.NewReviewService(reviewRepo, bookingRepo, notificationSvc)
	disputeSvc := service.NewDisputeService(disputeRepo, bookingRepo, notificationSvc)
	paymentSvc := service.NewPaymentService(paymentRepo, notificationSvc)
	experienceSvc := service.NewExperienceService(experienceRepo, favoriteRepo, notificationSvc)
	favoriteSvc := service.NewFavoriteService(favoriteRepo, experienceRepo)
	conversationSvc := service.NewConversationService(conversationRepo, notificationSvc)
	certificationSvc := service.NewCertificationService(certificationRepo)
	contentSvc := service.NewContentService(contentRepo)
	discoverySvc := service.NewDiscoveryService(discoveryRepo, userRepo, services.RedisRankingCache{})

	// Daily sweep marking approved certifications past their expiry date.
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if n, err := certificationSvc.ExpireOutdated(context.Background()); err != nil {
				log.Printf("certification expiry sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("expired %d outdated certifications", n)
			}
		}
	}()

	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	r.Static("/uploads", "./uploads")

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(userRepo))
			auth.POST("/login", handlers.Login(userRepo))
		}

		// Public catalog
		api.GET("/experiences", handlers.ListExperiences(experienceSvc))
		api.GET("/experiences/:id", handlers.GetExperience(experienceSvc))
		api.GET("/experiences/:id/reviews", handlers.GetExperienceReviews(reviewSvc))
		api.GET("/content", handlers.ListContent(contentSvc))
		api.GET("/content/:ref", handlers.GetContent(contentSvc))

		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile(userRepo))
				users.PUT("/profile", handlers.UpdateProfile(userRepo))
				users.POST("/avatar", handlers.UploadAvatar(userRepo))
				users.GET("/preferences", handlers.GetPreferences(userRepo))
				users.PUT("/preferences", handlers.UpdatePreferences(userRepo))
			}

			bookings := protected.Group("/bookings")
			{
				bookings.POST("", handlers.CreateBooking(bookingSvc))
				bookings.GET("", handlers.GetMyBookings(bookingSvc))
				bookings.GET("/:id", handlers.GetBooking(bookingSvc))
				bookings.POST("/:id/cancel", handlers.CancelBooking(bookingSvc))
				bookings.PATCH("/:id/status", handlers.UpdateBookingStatus(bookingSvc))
			}

			reviews := protected.Group("/reviews")
			{
				reviews.POST("", handlers.CreateReview(reviewSvc))
				reviews.GET("/mine", handlers.GetMyReviews(reviewSvc))
				reviews.PUT("/:id", handlers.UpdateReview(reviewSvc))
				reviews.DELETE("/:id", handlers.DeleteReview(reviewSvc))
				reviews.POST("/:id/helpful", handlers.MarkReviewHelpful(reviewSvc))
				reviews.POST("/images", handlers.UploadReviewImage())
			}

			disputes := protected.Group("/disputes")
			{
				disputes.POST("", handlers.OpenDispute(disputeSvc))
				disputes.GET("/:id", handlers.GetDispute(disputeSvc))
				disputes.POST("/evidence", handlers.UploadDisputeEvidence())
			}

			favorites := protected.Group("/favorites")
			{
				favorites.POST("", handlers.AddFavorite(favoriteSvc))
				favorites.GET("", handlers.GetFavorites(favoriteSvc))
				favorites.DELETE("/:experienceId", handlers.RemoveFavorite(favoriteSvc))
				favorites.PUT("/:experienceId/alerts", handlers.UpdateFavoriteAlerts(favoriteSvc))
			}

			conversations := protected.Group("/conversations")
			{
				conversations.POST("", handlers.StartConversation(conversationSvc))
				conversations.GET("", handlers.GetConversations(conversationSvc))
				conversations.GET("/:id/messages", handlers.GetMessages(conversationSvc))
				conversations.POST("/:id/messages", handlers.SendMessage(conversationSvc))
				conversations.POST("/:id/read", handlers.MarkConversationRead(conversationSvc))
			}

			notifications := protected.Group("/notifications")
			{
				notifications.GET("", handlers.GetNotifications(notificationSvc))
				notifications.GET("/unread-count", handlers.GetUnreadNotificationCount(notificationSvc))
				notifications.POST("/:id/read", handlers.MarkNotificationRead(notificationSvc))
				notifications.POST("/read-all", handlers.MarkAllNotificationsRead(notificationSvc))
			}

			protected.GET("/discover", handlers.GetRecommendedExperiences(discoverySvc))

			provider := protected.Group("/provider")
			provider.Use(middleware.RequireUserType(models.UserTypeProvider))
			{
				provider.POST("/experiences", handlers.CreateExperience(experienceSvc))
				provider.GET("/experiences", handlers.GetMyExperiences(experienceSvc))
				provider.PUT("/experiences/:id", handlers.UpdateExperience(experienceSvc))
				provider.POST("/experiences/:id/submit", handlers.SubmitExperienceForReview(experienceSvc))
				provider.DELETE("/experiences/:id", handlers.ArchiveExperience(experienceSvc))
				provider.POST("/experiences/images", handlers.UploadExperienceImage())
				provider.POST("/certifications", handlers.SubmitCertification(certificationSvc))
				provider.GET("/certifications", handlers.GetMyCertifications(certificationSvc))
				provider.POST("/certifications/document", handlers.UploadCertificationDocument())
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.RequireUserType(models.UserTypeAdmin))
			{
				admin.GET("/bookings", handlers.GetAllBookings(bookingSvc))
				admin.GET("/bookings/statistics", handlers.GetBookingStatistics(bookingSvc))
				admin.GET("/disputes", handlers.GetOpenDisputes(disputeSvc))
				admin.POST("/disputes/:id/resolve", handlers.ResolveDispute(disputeSvc))
				admin.GET("/payments", handlers.GetAllPayments(paymentSvc))
				admin.GET("/payments/disputed", handlers.GetDisputedPayments(paymentSvc))
				admin.GET("/payments/statistics", handlers.GetPaymentStatistics(paymentSvc))
				admin.GET("/payments/commissions", handlers.GetCommissions(paymentSvc))
				admin.GET("/payments/:id", handlers.GetPayment(paymentSvc))
				admin.POST("/payments/:id/refund", handlers.RefundPayment(paymentSvc))
				admin.POST("/payments/:id/transfer", handlers.TransferPayment(paymentSvc))
				admin.GET("/reviews/reported", handlers.GetReportedReviews(reviewSvc))
				admin.GET("/reviews/statistics", handlers.GetReviewStatistics(reviewSvc))
				admin.POST("/reviews/:id/moderate", handlers.ModerateReview(reviewSvc))
				admin.GET("/experiences/pending", handlers.GetPendingExperiences(experienceSvc))
				admin.POST("/experiences/:id/moderate", handlers.ModerateExperience(experienceSvc))
				admin.GET("/certifications/pending", handlers.GetPendingCertifications(certificationSvc))
				admin.POST("/certifications/:id/review", handlers.ReviewCertification(certificationSvc))
				admin.POST("/users/:id/suspend", handlers.SuspendUser(userRepo))
				admin.POST("/content", handlers.CreateContent(contentSvc))
				admin.PUT("/content/:ref", handlers.UpdateContent(contentSvc))
				admin.POST("/content/:ref/publish", handlers.PublishContent(contentSvc))
				admin.DELETE("/content/:ref", handlers.DeleteContent(contentSvc))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
