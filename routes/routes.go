package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zjkm666/ust-legazpi-mhs/config"
	"github.com/zjkm666/ust-legazpi-mhs/controllers"
	"github.com/zjkm666/ust-legazpi-mhs/middleware"
	"github.com/zjkm666/ust-legazpi-mhs/services"
	"github.com/zjkm666/ust-legazpi-mhs/store"
)

// Dependencies carries everything the route handlers need. main wires it
// up once at startup; tests can assemble one over the in-memory store.
type Dependencies struct {
	Config     config.Config
	Users      store.UserStore
	Moods      store.MoodLogStore
	Sessions   store.SessionStore
	Bookmarks  store.BookmarkStore
	MoodSvc    *services.MoodService
	Counseling *services.CounselingService
	Catalog    *services.ResourceCatalog
}

func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	authController := controllers.NewAuthController(deps.Users, deps.Config)
	userController := controllers.NewUserController(deps.Users)
	moodController := controllers.NewMoodController(deps.MoodSvc)
	counselingController := controllers.NewCounselingController(deps.Counseling, deps.Catalog)
	resourceController := controllers.NewResourceController(deps.Catalog, deps.Bookmarks, deps.Users)
	adminController := controllers.NewAdminController(deps.Users, deps.Moods, deps.Sessions)

	api := r.Group("/api")
	api.Use(middleware.RateLimiter(time.Duration(deps.Config.RateLimitWindowMS)*time.Millisecond, deps.Config.RateLimitMax))

	// No token required.
	public := api.Group("")
	{
		public.POST("/auth/register", authController.Register)
		public.POST("/auth/login", authController.Login)
		public.POST("/auth/logout", authController.Logout)
	}

	// The catalog is browsable anonymously; with a token the responses
	// also carry bookmark flags.
	browse := api.Group("/resources")
	browse.Use(middleware.OptionalAuth())
	{
		browse.GET("", resourceController.GetResources)
		browse.GET("/types/list", resourceController.GetResourceTypes)
		browse.GET("/crisis-contacts", resourceController.GetCrisisContacts)
		browse.GET("/educational", resourceController.GetEducationalResources)
		browse.GET("/:id", resourceController.GetResource)
	}

	private := api.Group("")
	private.Use(middleware.AuthMiddleware())
	{
		private.GET("/auth/verify", authController.Verify)

		private.GET("/users/profile", userController.GetProfile)
		private.PUT("/users/profile", userController.UpdateProfile)
		private.PUT("/users/change-password", userController.ChangePassword)
		private.GET("/users/stats", userController.GetStats)
		private.DELETE("/users/account", userController.DeactivateAccount)

		student := private.Group("")
		student.Use(middleware.RequireStudent())
		{
			student.POST("/mood/log", moodController.LogMood)
			student.GET("/mood/history", moodController.GetHistory)
			student.GET("/mood/stats", moodController.GetStats)
			student.PUT("/mood/log/:id", moodController.UpdateMood)
			student.DELETE("/mood/log/:id", moodController.DeleteMood)

			student.POST("/counseling/request", counselingController.RequestSession)
			student.GET("/counseling/sessions", counselingController.GetSessions)
			student.GET("/counseling/current", counselingController.GetCurrentSession)
			student.GET("/counseling/categories", counselingController.GetCategories)
			student.POST("/counseling/sessions/:id/message", counselingController.SendMessage)
			student.POST("/counseling/sessions/:id/end", counselingController.EndSession)
			student.POST("/counseling/sessions/:id/cancel", counselingController.CancelSession)

			student.POST("/resources/:id/bookmark", resourceController.ToggleBookmark)
			student.GET("/resources/bookmarks/list", resourceController.GetBookmarks)
		}

		admin := private.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/stats", adminController.GetDashboardStats)
			admin.GET("/users", adminController.GetUsers)
			admin.PUT("/users/:id/deactivate", adminController.DeactivateUser)
			admin.PUT("/users/:id/reactivate", adminController.ReactivateUser)
			admin.GET("/sessions", adminController.GetSessions)
			admin.GET("/analytics/mood", adminController.GetMoodAnalytics)
		}
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}
