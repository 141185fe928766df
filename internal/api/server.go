package api

import (
	"context"
	"io"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/aya-platform/volunteer-hub/docs"
	v1 "github.com/aya-platform/volunteer-hub/internal/api/handler/v1"
	"github.com/aya-platform/volunteer-hub/internal/api/middleware"
	"github.com/aya-platform/volunteer-hub/internal/config"
	"github.com/aya-platform/volunteer-hub/internal/repository"
	"github.com/aya-platform/volunteer-hub/internal/repository/dao"
	"github.com/aya-platform/volunteer-hub/internal/service"
	"github.com/aya-platform/volunteer-hub/internal/storage"
)

// ObjectStore keeps uploaded media. storage.MemoryStore and
// storage.MinIOClient both satisfy it.
type ObjectStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error)
	Delete(ctx context.Context, key string) error
}

type Server struct {
	Config  *config.AppConfig
	Router  *gin.Engine
	Metrics *middleware.Metrics
}

type handlers struct {
	auth         *v1.AuthHandler
	profile      *v1.ProfileHandler
	moderation   *v1.ModerationHandler
	admin        *v1.AdminHandler
	organization *v1.OrganizationHandler
	event        *v1.EventHandler
	notification *v1.NotificationHandler
	public       *v1.PublicHandler
	media        *v1.MediaHandler
}

func NewServer(conf *config.AppConfig, db *gorm.DB, store ObjectStore) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config:  conf,
		Router:  engine,
		Metrics: middleware.NewMetrics(),
	}

	s.MountMiddlewares()
	s.MountHandlers(s.initHandlers(db, store))

	return s
}

func (s *Server) initHandlers(db *gorm.DB, store ObjectStore) handlers {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	orgRepo := repository.NewOrganizationRepository(dao.NewOrganizationDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))

	notifier := service.NewNotificationService(repository.NewNotificationRepository(dao.NewNotificationDAO(db)), userRepo)
	auditor := service.NewAuditService(repository.NewAuditRepository(dao.NewAuditDAO(db)))

	profileSvc := service.NewProfileService(userRepo, store, notifier)
	orgSvc := service.NewOrganizationService(orgRepo, userRepo, notifier, auditor)
	eventSvc := service.NewEventService(eventRepo, userRepo, store, notifier, auditor)

	return handlers{
		auth:         v1.NewAuthHandler(s.Config.API, service.NewAuthService(userRepo, store, notifier, s.Config.API.PublicURL)),
		profile:      v1.NewProfileHandler(profileSvc),
		moderation:   v1.NewModerationHandler(service.NewModerationService(userRepo, store, notifier, auditor), profileSvc),
		admin:        v1.NewAdminHandler(service.NewAdminService(userRepo, store, notifier, auditor), auditor, profileSvc),
		organization: v1.NewOrganizationHandler(orgSvc, profileSvc),
		event:        v1.NewEventHandler(eventSvc, profileSvc),
		notification: v1.NewNotificationHandler(notifier, profileSvc),
		public: v1.NewPublicHandler(
			service.NewDirectoryService(userRepo, eventSvc, orgSvc),
			service.NewAboutService(repository.NewAboutRepository(dao.NewAboutDAO(db)), auditor),
			profileSvc,
		),
		media: v1.NewMediaHandler(store),
	}
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.Use(s.Metrics.Instrument())
}

func (s *Server) MountHandlers(h handlers) {
	const basePath = "/api/v1"

	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)
	limiter := middleware.NewRateLimiter(s.Config.API.AuthRatePerSecond, s.Config.API.AuthRateBurst)

	auth := s.Router.Group(basePath+"/auth", limiter.Limit())
	{
		auth.POST("/signup", h.auth.HandleSignup)
		auth.POST("/login", h.auth.HandleLogin)
	}

	public := s.Router.Group(basePath, authenticator.OptionalJWT())
	{
		public.GET("/home", h.public.HandleHome)
		public.GET("/about", h.public.HandleGetAbout)
		public.GET("/administration", h.public.HandleAdministration)
		public.GET("/volunteers", h.public.HandleVolunteers)
		public.GET("/profiles/:id", h.profile.HandleGetProfile)
		public.GET("/events", h.event.HandleListEvents)
		public.GET("/events/:id", h.event.HandleGetEvent)
		public.GET("/directions", h.organization.HandleListDirections)
		public.GET("/schools", h.organization.HandleListSchools)
	}

	me := s.Router.Group(basePath+"/me", authenticator.VerifyJWT())
	{
		me.GET("", h.profile.HandleGetMe)
		me.PUT("", h.profile.HandleUpdateMe)
		me.POST("/photo", h.profile.HandleUploadPhoto)
		me.DELETE("/moderation-comment", h.profile.HandleDismissComment)
	}

	notifications := s.Router.Group(basePath+"/notifications", authenticator.VerifyJWT())
	{
		notifications.GET("", h.notification.HandleListNotifications)
		notifications.POST("/read-all", h.notification.HandleMarkAllRead)
		notifications.POST("/:id/read", h.notification.HandleMarkRead)
	}

	events := s.Router.Group(basePath+"/events", authenticator.VerifyJWT())
	{
		events.GET("/pending", h.event.HandleListPendingEvents)
		events.POST("", h.event.HandleCreateEvent)
		events.PUT("/:id", h.event.HandleUpdateEvent)
		events.DELETE("/:id", h.event.HandleDeleteEvent)
		events.POST("/:id/approve", h.event.HandleApproveEvent)
		events.POST("/:id/finish", h.event.HandleFinishEvent)
		events.PUT("/:id/report", h.event.HandleUpdateReport)
		events.POST("/:id/participation", h.event.HandleToggleParticipation)
		events.DELETE("/photos/:id", h.event.HandleDeleteEventPhoto)
	}

	moderation := s.Router.Group(basePath+"/moderation", authenticator.VerifyJWT())
	{
		moderation.GET("/users", h.moderation.HandleListPendingUsers)
		moderation.POST("/users/:id/approve", h.moderation.HandleApproveUser)
		moderation.POST("/users/:id/reject", h.moderation.HandleRejectUser)
		moderation.GET("/changes", h.moderation.HandleListPendingChanges)
		moderation.POST("/changes/:id/approve", h.moderation.HandleApproveChanges)
		moderation.POST("/changes/:id/reject", h.moderation.HandleRejectChanges)
	}

	admin := s.Router.Group(basePath+"/admin", authenticator.VerifyJWT())
	{
		admin.GET("/dashboard", h.admin.HandleDashboard)
		admin.GET("/users", h.admin.HandleListUsers)
		admin.PUT("/users/:id", h.admin.HandleEditUser)
		admin.PUT("/users/:id/role", h.admin.HandleUpdateRole)
		admin.POST("/users/:id/active-volunteer", h.admin.HandleToggleActiveVolunteer)
		admin.POST("/users/:id/activity-periods", h.admin.HandleAddActivityPeriod)
		admin.DELETE("/activity-periods/:id", h.admin.HandleDeleteActivityPeriod)
		admin.GET("/audit-log", h.admin.HandleListAuditLog)
	}

	structure := s.Router.Group(basePath, authenticator.VerifyJWT())
	{
		structure.POST("/directions", h.organization.HandleCreateDirection)
		structure.DELETE("/directions/:id", h.organization.HandleDeleteDirection)
		structure.PUT("/directions/:id/leader", h.organization.HandleSetDirectionLeader)
		structure.POST("/schools", h.organization.HandleCreateSchool)
		structure.DELETE("/schools/:id", h.organization.HandleDeleteSchool)
		structure.POST("/schools/:id/leaders", h.organization.HandleToggleSchoolLeader)
		structure.PUT("/about", h.public.HandleUpdateAbout)
	}

	s.Router.GET("/media/*key", h.media.HandleMedia)
	s.Router.GET("/metrics", gin.WrapH(s.Metrics.Handler()))
	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Volunteer Hub API"
	docs.SwaggerInfo.Description = "Volunteer organization: profiles with moderated edits, events, directions and schools."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
