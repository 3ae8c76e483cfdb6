package server

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/careerfindr/careerfindr-api/internal/middleware"
	"github.com/careerfindr/careerfindr-api/internal/model"
	"github.com/careerfindr/careerfindr-api/internal/realtime"
	"github.com/careerfindr/careerfindr-api/pkg/mailer"
	"github.com/careerfindr/careerfindr-api/pkg/storage"

	adminHttp "github.com/careerfindr/careerfindr-api/internal/modules/admin/delivery/http"
	adminService "github.com/careerfindr/careerfindr-api/internal/modules/admin/service"

	announcementHttp "github.com/careerfindr/careerfindr-api/internal/modules/announcement/delivery/http"
	announcementRepo "github.com/careerfindr/careerfindr-api/internal/modules/announcement/repository"
	announcementService "github.com/careerfindr/careerfindr-api/internal/modules/announcement/service"

	applicationHttp "github.com/careerfindr/careerfindr-api/internal/modules/application/delivery/http"
	applicationRepo "github.com/careerfindr/careerfindr-api/internal/modules/application/repository"
	applicationService "github.com/careerfindr/careerfindr-api/internal/modules/application/service"

	chatHttp "github.com/careerfindr/careerfindr-api/internal/modules/chat/delivery/http"
	chatRepo "github.com/careerfindr/careerfindr-api/internal/modules/chat/repository"
	chatService "github.com/careerfindr/careerfindr-api/internal/modules/chat/service"

	eventHttp "github.com/careerfindr/careerfindr-api/internal/modules/event/delivery/http"
	eventRepo "github.com/careerfindr/careerfindr-api/internal/modules/event/repository"
	eventService "github.com/careerfindr/careerfindr-api/internal/modules/event/service"

	facultyHttp "github.com/careerfindr/careerfindr-api/internal/modules/faculty/delivery/http"
	facultyRepo "github.com/careerfindr/careerfindr-api/internal/modules/faculty/repository"
	facultyService "github.com/careerfindr/careerfindr-api/internal/modules/faculty/service"

	jobHttp "github.com/careerfindr/careerfindr-api/internal/modules/job/delivery/http"
	jobRepo "github.com/careerfindr/careerfindr-api/internal/modules/job/repository"
	jobService "github.com/careerfindr/careerfindr-api/internal/modules/job/service"

	notiHttp "github.com/careerfindr/careerfindr-api/internal/modules/notification/delivery/http"
	notifRepo "github.com/careerfindr/careerfindr-api/internal/modules/notification/repository"
	notifService "github.com/careerfindr/careerfindr-api/internal/modules/notification/service"

	profileHttp "github.com/careerfindr/careerfindr-api/internal/modules/profile/delivery/http"
	profileRepo "github.com/careerfindr/careerfindr-api/internal/modules/profile/repository"
	profileService "github.com/careerfindr/careerfindr-api/internal/modules/profile/service"

	searchHttp "github.com/careerfindr/careerfindr-api/internal/modules/search/delivery/http"
	searchService "github.com/careerfindr/careerfindr-api/internal/modules/search/service"

	userHttp "github.com/careerfindr/careerfindr-api/internal/modules/user/delivery/http"
	userRepo "github.com/careerfindr/careerfindr-api/internal/modules/user/repository"
	userService "github.com/careerfindr/careerfindr-api/internal/modules/user/service"

	"github.com/careerfindr/careerfindr-api/internal/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	users := userRepo.NewUserRepository(db)

	fileStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Printf("WARNING: cloudinary storage unavailable, uploads disabled: %v", err)
		fileStorage = nil
	}

	var mail mailer.Mailer
	if cfg.MailSender != "" {
		mail, err = mailer.NewSESMailer(context.Background())
		if err != nil {
			log.Printf("WARNING: SES mailer unavailable, reset emails will be logged: %v", err)
			mail = nil
		}
	}

	meiliHost := cfg.MeiliSearchHost
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	searchSvc := searchService.NewSearchService(meiliClient)
	searchHandler := searchHttp.NewSearchHandler(searchSvc)

	rt := realtime.NewManager(redisClient)

	authSvc := userService.NewAuthService(users, mail, cfg, redisClient)
	authHandler := userHttp.NewAuthHandler(authSvc)

	// Notification Module
	notifications := notifRepo.NewNotificationRepository(db)
	notificationSvc := notifService.NewNotificationService(notifications, rt)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc, rt)

	// Job Module
	jobs := jobRepo.NewJobRepository(db)
	viewCounter := jobService.NewViewCounter(redisClient, jobs)
	jobSvc := jobService.NewJobService(jobs, users, searchSvc, viewCounter)
	jobHandler := jobHttp.NewJobHandler(jobSvc)

	if viewCounter != nil {
		go viewCounter.StartViewSyncWorker(context.Background())
	}

	// Application Module
	applications := applicationRepo.NewApplicationRepository(db)
	applicationSvc := applicationService.NewApplicationService(applications, jobs, notificationSvc, redisClient)
	applicationHandler := applicationHttp.NewApplicationHandler(applicationSvc)

	// Announcement Module
	announcements := announcementRepo.NewAnnouncementRepository(db)
	announcementSvc := announcementService.NewAnnouncementService(announcements, users, notificationSvc)
	announcementHandler := announcementHttp.NewAnnouncementHandler(announcementSvc)

	// Chat Module
	chats := chatRepo.NewChatRepository(db)
	chatSvc := chatService.NewChatService(chats, users, rt, redisClient)
	chatHandler := chatHttp.NewChatHandler(chatSvc, rt)

	// Event Module
	events := eventRepo.NewEventRepository(db)
	eventSvc := eventService.NewEventService(events, notificationSvc, rt)
	eventHandler := eventHttp.NewEventHandler(eventSvc, rt)
	eventSvc.StartReminderWorker(context.Background(), time.Hour)

	// Faculty Module
	faculties := facultyRepo.NewFacultyRepository(db)
	facultySvc := facultyService.NewFacultyService(faculties, searchSvc)
	facultyHandler := facultyHttp.NewFacultyHandler(facultySvc)

	// Profile Module
	profiles := profileRepo.NewProfileRepository(db)
	profileSvc := profileService.NewProfileService(profiles, fileStorage)
	profileHandler := profileHttp.NewProfileHandler(profileSvc)

	// Admin Module
	adminSvc := adminService.NewAdminService(users, jobs, applications, notificationSvc)
	impersonationSvc := adminService.NewImpersonationService(redisClient, users)
	adminHandler := adminHttp.NewAdminHandler(adminSvc, impersonationSvc)

	router := gin.New()

	setupCORS(router)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(users)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authHandler.Register)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
		auth.GET("/google/login", authHandler.GoogleLogin)
		auth.GET("/google/callback", authHandler.GoogleCallback)
	}

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Routes open to every signed-in role. The role gate also resolves
		// the caller's role for handlers that filter by it.
		anyRole := protected.Group("")
		anyRole.Use(authMiddleware.RequireRole(model.RoleAdmin, model.RoleStudent, model.RoleInstitute, model.RoleCompany))
		{
			anyRole.GET("/jobs", jobHandler.ListJobs)
			anyRole.GET("/jobs/:job_id", jobHandler.GetJob)

			anyRole.GET("/announcements/active", announcementHandler.GetActive)
			anyRole.GET("/search/token", searchHandler.GetToken)

			anyRole.GET("/notifications", notificationHandler.GetNotifications)
			anyRole.GET("/notifications/unread-count", notificationHandler.UnreadCount)
			anyRole.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
			anyRole.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
			anyRole.GET("/notifications/ws", notificationHandler.HandleWebSocket)

			anyRole.POST("/chats", chatHandler.StartChat)
			anyRole.GET("/chats", chatHandler.ListChats)
			anyRole.GET("/chats/ws", chatHandler.StreamChatList)
			anyRole.GET("/chats/:chat_id/messages", chatHandler.GetMessages)
			anyRole.POST("/chats/:chat_id/messages", chatHandler.SendMessage)
			anyRole.PUT("/chats/:chat_id/read", chatHandler.MarkRead)
			anyRole.GET("/chats/:chat_id/ws", chatHandler.StreamMessages)

			anyRole.GET("/events/upcoming", eventHandler.UpcomingEvents)
			anyRole.GET("/events/ws", eventHandler.StreamEvents)

			anyRole.GET("/institutes/:user_id/faculties", facultyHandler.BrowseFaculties)

			anyRole.POST("/profile/avatar", profileHandler.UploadAvatar)
		}

		// Admin routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.GET("/users", adminHandler.ListUsers)
			adminGroup.PUT("/users/:user_id/approve", adminHandler.ApproveUser)
			adminGroup.PUT("/users/:user_id/reject", adminHandler.RejectUser)
			adminGroup.DELETE("/users/:user_id", adminHandler.DeleteUser)
			adminGroup.GET("/dashboard", adminHandler.Dashboard)

			adminGroup.POST("/announcements", announcementHandler.Create)
			adminGroup.GET("/announcements", announcementHandler.GetAll)
			adminGroup.PUT("/announcements/:id", announcementHandler.Update)
			adminGroup.DELETE("/announcements/:id", announcementHandler.Delete)

			adminGroup.POST("/impersonation", adminHandler.StartImpersonation)
			adminGroup.DELETE("/impersonation", adminHandler.StopImpersonation)
			adminGroup.GET("/impersonation", adminHandler.ImpersonationStatus)
		}

		// Company routes
		companyGroup := protected.Group("")
		companyGroup.Use(authMiddleware.RequireRole(model.RoleCompany))
		{
			companyGroup.POST("/jobs", jobHandler.CreateJob)
			companyGroup.PUT("/jobs/:job_id", jobHandler.UpdateJob)
			companyGroup.DELETE("/jobs/:job_id", jobHandler.DeleteJob)
			companyGroup.GET("/jobs/me/list", jobHandler.MyJobs)

			companyGroup.GET("/jobs/:job_id/applicants", applicationHandler.ListForJob)
			companyGroup.PUT("/applications/:application_id/status", applicationHandler.UpdateStatus)

			companyGroup.GET("/candidates/:user_id", profileHandler.GetCandidateProfile)
		}

		// Institute routes
		instituteGroup := protected.Group("")
		instituteGroup.Use(authMiddleware.RequireRole(model.RoleInstitute))
		{
			instituteGroup.POST("/faculties", facultyHandler.CreateFaculty)
			instituteGroup.GET("/faculties", facultyHandler.ListFaculties)
			instituteGroup.PUT("/faculties/:faculty_id", facultyHandler.UpdateFaculty)
			instituteGroup.DELETE("/faculties/:faculty_id", facultyHandler.DeleteFaculty)

			instituteGroup.POST("/faculties/:faculty_id/courses", facultyHandler.CreateCourse)
			instituteGroup.PUT("/courses/:course_id", facultyHandler.UpdateCourse)
			instituteGroup.DELETE("/courses/:course_id", facultyHandler.DeleteCourse)
		}

		// Organization profile is shared by institutes and companies.
		orgGroup := protected.Group("")
		orgGroup.Use(authMiddleware.RequireRole(model.RoleInstitute, model.RoleCompany))
		{
			orgGroup.GET("/profile/org", profileHandler.GetMyOrgProfile)
			orgGroup.PUT("/profile/org", profileHandler.UpdateOrgProfile)
			orgGroup.POST("/profile/org/logo", profileHandler.UploadLogo)
			orgGroup.POST("/profile/org/verification", profileHandler.UploadVerification)
		}

		// Events are scheduled by staff accounts.
		eventGroup := protected.Group("")
		eventGroup.Use(authMiddleware.RequireRole(model.RoleAdmin, model.RoleInstitute, model.RoleCompany))
		{
			eventGroup.POST("/events", eventHandler.CreateEvent)
			eventGroup.PUT("/events/:event_id", eventHandler.UpdateEvent)
			eventGroup.DELETE("/events/:event_id", eventHandler.DeleteEvent)
		}

		// Student routes
		studentGroup := protected.Group("")
		studentGroup.Use(authMiddleware.RequireRole(model.RoleStudent))
		{
			studentGroup.POST("/jobs/:job_id/apply", applicationHandler.Apply)
			studentGroup.GET("/jobs/:job_id/match", jobHandler.GetMatch)
			studentGroup.GET("/applications/me", applicationHandler.ListMine)

			studentGroup.GET("/profile/candidate", profileHandler.GetMyCandidateProfile)
			studentGroup.PUT("/profile/candidate", profileHandler.UpdateCandidateProfile)
			studentGroup.POST("/profile/candidate/resume", profileHandler.UploadResume)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine) {
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
