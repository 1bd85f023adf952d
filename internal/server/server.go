package server

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/config"
	"github.com/inkwell-cms/inkwell/internal/handler"
	"github.com/inkwell-cms/inkwell/internal/middleware"
	"github.com/inkwell-cms/inkwell/internal/repository"
	"github.com/inkwell-cms/inkwell/internal/service"
	"github.com/inkwell-cms/inkwell/pkg/mailer"
	"github.com/inkwell-cms/inkwell/pkg/storage"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client

	// Views is exposed so main can schedule periodic flushes.
	Views service.ViewService
}

func NewServer(
	cfg *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	search service.SearchService,
	mail mailer.Mailer,
	imageStorage storage.ImageStorage,
) *Server {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	taxonomyRepo := repository.NewTaxonomyRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	newsletterRepo := repository.NewNewsletterRepository(db)

	viewSvc := service.NewViewService(redisClient, postRepo)

	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	authHandler := handler.NewAuthHandler(authSvc)

	postSvc := service.NewPostService(postRepo, commentRepo, taxonomyRepo, userRepo, search, viewSvc)
	postHandler := handler.NewPostHandler(postSvc)

	commentSvc := service.NewCommentService(commentRepo, postRepo, redisClient, cfg.RateLimitComment)
	commentHandler := handler.NewCommentHandler(commentSvc)

	taxonomySvc := service.NewTaxonomyService(taxonomyRepo)
	taxonomyHandler := handler.NewTaxonomyHandler(taxonomySvc)

	messageSvc := service.NewMessageService(messageRepo, userRepo, redisClient, cfg.RateLimitMessage)
	messageHandler := handler.NewMessageHandler(messageSvc, redisClient)

	newsletterSvc := service.NewNewsletterService(newsletterRepo)
	newsletterHandler := handler.NewNewsletterHandler(newsletterSvc)

	contactSvc := service.NewContactService(mail, cfg.ContactEmail)
	contactHandler := handler.NewContactHandler(contactSvc)

	profileSvc := service.NewProfileService(userRepo, postRepo, messageRepo, imageStorage)
	profileHandler := handler.NewProfileHandler(profileSvc)

	adminSvc := service.NewAdminService(postRepo, commentRepo, userRepo, search)
	adminHandler := handler.NewAdminHandler(adminSvc, newsletterSvc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(metricsMiddleware())

	setupCORS(router, cfg.AllowedOrigins)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes
	api.GET("/home", postHandler.Home)
	api.GET("/posts", postHandler.ListPosts)
	api.GET("/posts/:slug", postHandler.GetPost)
	api.POST("/posts/:slug/comments", commentHandler.SubmitComment)
	api.GET("/archive", postHandler.Archive)
	api.GET("/archive/:year/:month", postHandler.ArchiveMonth)
	api.GET("/categories", taxonomyHandler.ListCategories)
	api.GET("/categories/:slug/posts", postHandler.PostsByCategory)
	api.GET("/tags", taxonomyHandler.ListTags)
	api.GET("/tags/:slug/posts", postHandler.PostsByTag)
	api.GET("/profiles/:username", profileHandler.GetByUsername)
	api.POST("/newsletter/subscribe", newsletterHandler.Subscribe)
	api.POST("/contact", contactHandler.Submit)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/posts", postHandler.CreatePost)
		protected.PUT("/posts/:slug", postHandler.UpdatePost)
		protected.POST("/posts/:slug/publish", postHandler.PublishPost)
		protected.DELETE("/posts/:slug", postHandler.DeletePost)

		me := protected.Group("/me")
		{
			me.GET("", profileHandler.Me)
			me.PUT("", profileHandler.UpdateMe)
			me.POST("/avatar", profileHandler.UploadAvatar)
			me.GET("/dashboard", profileHandler.Dashboard)
			me.GET("/posts", postHandler.MyPosts)
		}

		messages := protected.Group("/messages")
		{
			messages.POST("", messageHandler.Send)
			messages.GET("/inbox", messageHandler.Inbox)
			messages.GET("/sent", messageHandler.Sent)
			messages.GET("/unread-count", messageHandler.UnreadCount)
			messages.GET("/ws", messageHandler.HandleWebSocket)
			messages.GET("/:id", messageHandler.Get)
			messages.PUT("/:id/read", messageHandler.MarkAsRead)
			messages.DELETE("/:id", messageHandler.Delete)
		}

		// Admin routes
		admin := protected.Group("/admin")
		admin.Use(authMiddleware.RequireAdmin())
		{
			admin.GET("/posts", adminHandler.ListPosts)
			admin.POST("/posts/bulk-delete", adminHandler.BulkDeletePosts)
			admin.PUT("/posts/:id/feature", adminHandler.FeaturePost)
			admin.GET("/comments", adminHandler.ListComments)
			admin.POST("/comments/bulk-delete", adminHandler.BulkDeleteComments)
			admin.PUT("/comments/:id/approve", adminHandler.ApproveComment)
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/subscribers", adminHandler.ListSubscribers)

			admin.POST("/categories", taxonomyHandler.CreateCategory)
			admin.PUT("/categories/:id", taxonomyHandler.UpdateCategory)
			admin.DELETE("/categories/:id", taxonomyHandler.DeleteCategory)
			admin.POST("/tags", taxonomyHandler.CreateTag)
			admin.DELETE("/tags/:id", taxonomyHandler.DeleteTag)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
		Views:       viewSvc,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
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
