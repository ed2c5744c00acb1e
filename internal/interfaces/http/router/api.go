package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rentwise/backend/internal/app"
	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/interfaces/http/handler"
	"github.com/rentwise/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the REST handlers served under the API prefix
type Handlers struct {
	System        *handler.SystemHandler
	Auth          *handler.AuthHandler
	Users         *handler.UserHandler
	Properties    *handler.PropertyHandler
	Listings      *handler.ListingHandler
	Inspections   *handler.InspectionHandler
	Applications  *handler.ApplicationHandler
	Leases        *handler.LeaseHandler
	Tasks         *handler.TaskHandler
	Conversations *handler.ConversationHandler
	Uploads       *handler.UploadHandler
}

// NewHandlers creates a handler for every service
func NewHandlers(s *app.Services, system *handler.SystemHandler) Handlers {
	return Handlers{
		System:        system,
		Auth:          handler.NewAuthHandler(s.Auth),
		Users:         handler.NewUserHandler(s.Users),
		Properties:    handler.NewPropertyHandler(s.Properties),
		Listings:      handler.NewListingHandler(s.Listings),
		Inspections:   handler.NewInspectionHandler(s.Inspections),
		Applications:  handler.NewApplicationHandler(s.Applications),
		Leases:        handler.NewLeaseHandler(s.Leases),
		Tasks:         handler.NewTaskHandler(s.Tasks),
		Conversations: handler.NewConversationHandler(s.Messaging),
		Uploads:       handler.NewUploadHandler(s.Uploads),
	}
}

// Guards are the middleware protecting the API
type Guards struct {
	// Auth authenticates the bearer token and resolves the actor
	Auth gin.HandlerFunc
	// Credentials throttles the unauthenticated credential endpoints; nil disables it
	Credentials gin.HandlerFunc
}

// APIGroups builds the domain route groups of the REST API
func APIGroups(h Handlers, g Guards) []RouteRegistrar {
	agentOnly := middleware.RequireRoles(identity.RoleAgent)

	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)
	system.GET("/ping", h.System.Ping)

	authRoutes := NewDomainGroup("auth", "/auth")
	public := authRoutes.Group("public", "")
	if g.Credentials != nil {
		public.Use(g.Credentials)
	}
	public.POST("/register", h.Auth.Register)
	public.POST("/login", h.Auth.Login)
	public.POST("/refresh", h.Auth.Refresh)
	public.POST("/password/forgot", h.Auth.RequestPasswordReset)
	public.POST("/password/reset", h.Auth.ResetPassword)
	session := authRoutes.Group("session", "").Use(g.Auth)
	session.POST("/logout", h.Auth.Logout)
	session.GET("/me", h.Auth.Me)
	session.PUT("/password", h.Auth.ChangePassword)

	users := NewDomainGroup("users", "/users").Use(g.Auth)
	users.GET("", h.Users.ListUsers)
	users.PUT("/me", h.Users.UpdateProfile)
	users.GET("/:id", h.Users.GetUser)
	users.GET("/:id/logins", h.Users.ListLoginHistory)
	users.POST("/:id/activate", agentOnly, h.Users.ActivateUser)
	users.POST("/:id/deactivate", agentOnly, h.Users.DeactivateUser)

	properties := NewDomainGroup("properties", "/properties").Use(g.Auth)
	properties.POST("", h.Properties.CreateProperty)
	properties.GET("", h.Properties.ListProperties)
	properties.GET("/:id", h.Properties.GetProperty)
	properties.PUT("/:id", h.Properties.UpdateProperty)
	properties.POST("/:id/archive", h.Properties.ArchiveProperty)
	properties.POST("/:id/restore", h.Properties.RestoreProperty)

	listings := NewDomainGroup("listings", "/listings").Use(g.Auth)
	listings.POST("", h.Listings.CreateListing)
	listings.GET("", h.Listings.ListListings)
	listings.GET("/:id", h.Listings.GetListing)
	listings.PUT("/:id", h.Listings.UpdateListing)
	listings.POST("/:id/publish", h.Listings.PublishListing)
	listings.POST("/:id/withdraw", h.Listings.WithdrawListing)
	listings.POST("/:id/photos", h.Listings.AttachPhotos)
	listings.POST("/:id/notify-rejected", agentOnly, h.Applications.NotifyRejected)

	inspections := NewDomainGroup("inspections", "/inspections").Use(g.Auth)
	inspections.POST("", h.Inspections.ScheduleInspection)
	inspections.GET("", h.Inspections.ListInspections)
	inspections.GET("/:id", h.Inspections.GetInspection)
	inspections.POST("/:id/complete", h.Inspections.CompleteInspection)
	inspections.POST("/:id/cancel", h.Inspections.CancelInspection)
	inspections.POST("/:id/reschedule", h.Inspections.RescheduleInspection)
	inspections.POST("/:id/photos", h.Inspections.AttachPhotos)

	applications := NewDomainGroup("applications", "/applications").Use(g.Auth)
	applications.POST("", h.Applications.Submit)
	applications.GET("", h.Applications.List)
	applications.GET("/:id", h.Applications.Get)
	applications.POST("/:id/actions", h.Applications.Act)
	applications.POST("/:id/withdraw", h.Applications.Withdraw)

	leases := NewDomainGroup("leases", "/leases").Use(g.Auth)
	leases.GET("", h.Leases.ListLeases)
	leases.GET("/:id", h.Leases.GetLease)
	leases.POST("/:id/sign", h.Leases.SignLease)
	leases.POST("/:id/terminate", h.Leases.TerminateLease)
	leases.POST("/:id/document", h.Leases.AttachDocument)
	leases.GET("/:id/document", h.Leases.DocumentURL)

	tasks := NewDomainGroup("tasks", "/tasks").Use(g.Auth)
	tasks.POST("", h.Tasks.CreateTask)
	tasks.GET("", h.Tasks.ListTasks)
	tasks.GET("/:id", h.Tasks.GetTask)
	tasks.PUT("/:id", h.Tasks.UpdateTask)
	tasks.DELETE("/:id", h.Tasks.DeleteTask)
	tasks.POST("/:id/transition", h.Tasks.TransitionTask)

	conversations := NewDomainGroup("conversations", "/conversations").Use(g.Auth)
	conversations.POST("", h.Conversations.StartConversation)
	conversations.GET("", h.Conversations.ListConversations)
	conversations.POST("/broadcast", agentOnly, h.Conversations.Broadcast)
	conversations.GET("/:id/messages", h.Conversations.ListMessages)
	conversations.POST("/:id/messages", h.Conversations.SendMessage)
	conversations.POST("/:id/read", h.Conversations.MarkRead)

	uploads := NewDomainGroup("uploads", "/uploads").Use(g.Auth)
	uploads.POST("", h.Uploads.BatchUpload)
	uploads.GET("/url", h.Uploads.DownloadURL)

	return []RouteRegistrar{
		system, authRoutes, users, properties, listings, inspections,
		applications, leases, tasks, conversations, uploads,
	}
}
