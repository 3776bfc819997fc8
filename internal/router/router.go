package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskhive/backend/api/handler"
)

type Handlers struct {
	Auth         *apiHandler.AuthHandler
	Task         *apiHandler.TaskHandler
	Notification *apiHandler.NotificationHandler
	Analytics    *apiHandler.AnalyticsHandler
	WS           *apiHandler.WSHandler
	Health       *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Public auth routes
	r.POST("/api/v1/users", handlers.Auth.Register)
	r.POST("/api/v1/users/login", handlers.Auth.Login)

	// Profile
	r.POST("/api/v1/users/logout", authMiddleware(handlers.Auth.Logout))
	r.GET("/api/v1/profile", authMiddleware(handlers.Auth.GetProfile))
	r.PUT("/api/v1/profile", authMiddleware(handlers.Auth.UpdateProfile))

	// Tasks
	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.GetTasks))
	r.GET("/api/v1/tasks/shared", authMiddleware(handlers.Task.GetSharedTasks))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.CreateTask))
	r.GET("/api/v1/tasks/{id}", authMiddleware(handlers.Task.GetTask))
	r.PUT("/api/v1/tasks/{id}", authMiddleware(handlers.Task.UpdateTask))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))
	r.PUT("/api/v1/tasks/{id}/share", authMiddleware(handlers.Task.ShareTask))
	r.POST("/api/v1/tasks/{id}/attachments", authMiddleware(handlers.Task.UploadAttachment))
	r.GET("/api/v1/attachments/{id}", authMiddleware(handlers.Task.DownloadAttachment))

	// Notifications
	r.GET("/api/v1/notifications", authMiddleware(handlers.Notification.List))
	r.PUT("/api/v1/notifications/read-all", authMiddleware(handlers.Notification.MarkAllRead))
	r.PUT("/api/v1/notifications/{id}/read", authMiddleware(handlers.Notification.MarkRead))

	// Analytics
	r.GET("/api/v1/analytics/overview", authMiddleware(handlers.Analytics.Overview))
	r.GET("/api/v1/analytics/trends", authMiddleware(handlers.Analytics.Trends))

	// Real-time channel authenticates inside the handler via the token
	// query parameter.
	r.GET("/api/v1/ws", handlers.WS.Serve)

	return r
}
