package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/kavanaghbl/chambers-site/internal/assist"
	"github.com/kavanaghbl/chambers-site/internal/audit"
	"github.com/kavanaghbl/chambers-site/internal/config"
	"github.com/kavanaghbl/chambers-site/internal/handlers"
	infraRepo "github.com/kavanaghbl/chambers-site/internal/infra/repository"
	"github.com/kavanaghbl/chambers-site/internal/llm"
	"github.com/kavanaghbl/chambers-site/internal/middleware"
	"github.com/kavanaghbl/chambers-site/internal/storage"
	ucBooking "github.com/kavanaghbl/chambers-site/internal/usecase/booking"
	ucIntake "github.com/kavanaghbl/chambers-site/internal/usecase/intake"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)
	intakeRepo := infraRepo.NewIntakeGormRepository(db)
	externalRepo := infraRepo.NewExternalBookingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
	media := storage.NewMediaUploader(cfg)

	var windowStore assist.WindowStore
	if rdb != nil {
		windowStore = assist.NewRedisWindowStore(rdb)
	} else {
		windowStore = assist.NewMemoryWindowStore()
	}
	rateLimiter := assist.NewRateLimiter(windowStore)
	assistService := assist.NewService(db, cfg, llmClient)

	// ======================================================
	// USE CASES
	// ======================================================
	submitBookingUC := ucBooking.NewSubmitBooking(
		bookingRepo,
		auditDispatcher,
		cfg.Timezone,
	)

	listDatesUC := ucBooking.NewListAvailableDates(bookingRepo, cfg.Timezone)
	listSlotsUC := ucBooking.NewListSlotsForDate(bookingRepo, cfg.Timezone)

	deleteSlotUC := ucBooking.NewDeleteSlot(bookingRepo, auditDispatcher)

	classifyUC := ucIntake.NewClassifyIntake(intakeRepo, llmClient)
	analyseUC := ucIntake.NewAnalyseIntake(intakeRepo, llmClient)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)

	publicHandler := handlers.NewPublicHandler(db, cfg)
	intakeHandler := handlers.NewIntakeHandler(intakeRepo, classifyUC)
	bookingHandler := handlers.NewBookingHandler(
		bookingRepo,
		submitBookingUC,
		listDatesUC,
		listSlotsUC,
		cfg.Timezone,
	)

	assistHandler := handlers.NewAssistHandler(assistService, rateLimiter, cfg.AssistantEnabled)
	calendarHandler := handlers.NewCalendarHandler(bookingRepo, cfg)
	webhookHandler := handlers.NewWebhookHandler(externalRepo, cfg.CalendlySigningKey)

	contentHandler := handlers.NewContentHandler(db, auditDispatcher)
	practiceAreaHandler := handlers.NewPracticeAreaHandler(db, auditDispatcher)
	blogHandler := handlers.NewBlogHandler(db, media, auditDispatcher)
	caseStudyHandler := handlers.NewCaseStudyHandler(db, media, auditDispatcher)

	slotHandler := handlers.NewSlotHandler(db, deleteSlotUC, auditDispatcher, cfg.Timezone)
	ownerBookingHandler := handlers.NewOwnerBookingHandler(db, auditDispatcher)
	ownerIntakeHandler := handlers.NewOwnerIntakeHandler(intakeRepo, analyseUC, auditDispatcher)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC SITE
		// ------------------------------
		api.GET("/home", publicHandler.Home)
		api.GET("/pages/:slug", publicHandler.SitePage)

		api.GET("/practice-areas", publicHandler.ListPracticeAreas)
		api.GET("/practice-areas/:slug", publicHandler.GetPracticeArea)

		api.GET("/blog", publicHandler.ListBlogPosts)
		api.GET("/blog/:slug", publicHandler.GetBlogPost)

		api.GET("/cases", publicHandler.ListCaseStudies)
		api.GET("/cases/:slug", publicHandler.GetCaseStudy)

		// ------------------------------
		// INTAKE
		// ------------------------------
		api.POST("/intake", intakeHandler.Start)
		api.GET("/intake/:token/thank-you", intakeHandler.ThankYou)

		// ------------------------------
		// BOOKING
		// ------------------------------
		api.GET("/booking", bookingHandler.Index)
		api.GET("/booking/dates/:date", bookingHandler.Date)
		api.GET("/booking/slots/:id", bookingHandler.Slot)
		api.POST("/booking/slots/:id", bookingHandler.Submit)
		api.GET("/booking/success/:id", bookingHandler.Success)

		// ------------------------------
		// ASSISTANT
		// ------------------------------
		api.POST("/assist", assistHandler.Chat)

		// ------------------------------
		// INTEGRATIONS
		// ------------------------------
		api.POST("/webhooks/calendly", webhookHandler.Receive)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// OWNER AREA
		// ------------------------------
		secured := api.Group("/owner")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.PATCH("/homepage", contentHandler.UpdateHomepage)
			secured.PUT("/pages/:slug", contentHandler.UpsertSitePage)

			secured.POST("/practice-areas", practiceAreaHandler.Create)
			secured.PATCH("/practice-areas/:id", practiceAreaHandler.Update)
			secured.DELETE("/practice-areas/:id", practiceAreaHandler.Delete)

			secured.GET("/blog", blogHandler.ListAll)
			secured.POST("/blog", blogHandler.Create)
			secured.PATCH("/blog/:id", blogHandler.Update)
			secured.POST("/blog/:id/cover", blogHandler.UploadCover)
			secured.DELETE("/blog/:id", blogHandler.Delete)

			secured.GET("/cases", caseStudyHandler.ListAll)
			secured.POST("/cases", caseStudyHandler.Create)
			secured.PATCH("/cases/:id", caseStudyHandler.Update)
			secured.POST("/cases/:id/cover", caseStudyHandler.UploadCover)
			secured.DELETE("/cases/:id", caseStudyHandler.Delete)

			secured.GET("/slots", slotHandler.List)
			secured.POST("/slots", slotHandler.Create)
			secured.PATCH("/slots/:id", slotHandler.Update)
			secured.DELETE("/slots/:id", slotHandler.Delete)

			secured.GET("/bookings", ownerBookingHandler.List)
			secured.GET("/bookings/:id", ownerBookingHandler.Get)
			secured.PATCH("/bookings/:id/toggle-paid", ownerBookingHandler.TogglePaid)

			secured.GET("/intakes", ownerIntakeHandler.List)
			secured.GET("/intakes/:token", ownerIntakeHandler.Get)
			secured.POST("/intakes/:token/analyse", ownerIntakeHandler.Analyse)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}

	// The feed URL is the secret; no auth header, calendar apps cannot
	// send one.
	r.GET("/calendar/:secret", calendarHandler.Feed)
}
