package router

import (
	"time"

	"github.com/evoapps/confeitaria-backend/config"
	"github.com/evoapps/confeitaria-backend/internal/app/controller"
	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Controllers groups every HTTP handler the router mounts
type Controllers struct {
	Auth      *controller.AuthController
	User      *controller.UserController
	Store     *controller.StoreController
	Category  *controller.CategoryController
	Product   *controller.ProductController
	Order     *controller.OrderController
	Client    *controller.ClientController
	Dashboard *controller.DashboardController
	Backup    *controller.BackupController
	Upload    *controller.UploadController
	Board     *controller.BoardController
}

type Router struct {
	controllers    Controllers
	authMiddleware *middleware.AuthMiddleware
	config         *config.Config
}

func NewRouter(controllers Controllers, authMiddleware *middleware.AuthMiddleware, cfg *config.Config) *Router {
	return &Router{
		controllers:    controllers,
		authMiddleware: authMiddleware,
		config:         cfg,
	}
}

// supervisors may see money and change the catalogue
var supervisors = []model.UserRole{model.RoleAdmin, model.RoleOwner, model.RoleManager}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Confeitaria API is running",
		})
	})

	ctrl := r.controllers
	auth := r.authMiddleware
	supervisor := auth.RequireRole(supervisors...)
	adminOnly := auth.RequireRole(model.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", ctrl.Auth.Login)
			authGroup.POST("/refresh", ctrl.Auth.Refresh)
			authGroup.POST("/logout", auth.Authenticate(), ctrl.Auth.Logout)
			authGroup.GET("/me", auth.Authenticate(), ctrl.Auth.GetMe)
			authGroup.POST("/authorize", auth.Authenticate(), ctrl.Auth.Authorize)
		}

		authed := v1.Group("", auth.Authenticate())

		users := authed.Group("/users", adminOnly)
		{
			users.GET("", ctrl.User.List)
			users.GET("/:id", ctrl.User.Get)
			users.POST("", ctrl.User.Create)
			users.PUT("/:id", ctrl.User.Update)
			users.DELETE("/:id", ctrl.User.Delete)
		}

		stores := authed.Group("/stores")
		{
			stores.GET("", adminOnly, ctrl.Store.List)
			stores.GET("/:id", adminOnly, ctrl.Store.Get)
			stores.POST("", adminOnly, ctrl.Store.Create)
			stores.PUT("/:id", adminOnly, ctrl.Store.Update)
			stores.DELETE("/:id", adminOnly, ctrl.Store.Delete)
			stores.GET("/:id/theme", ctrl.Store.GetTheme)
			stores.PUT("/:id/theme", adminOnly, ctrl.Store.UpdateTheme)
		}

		backups := authed.Group("/admin/backups", adminOnly)
		{
			backups.GET("", ctrl.Backup.List)
			backups.POST("", ctrl.Backup.Create)
			backups.GET("/export", ctrl.Backup.Export)
			backups.POST("/restore", ctrl.Backup.Restore)
			backups.POST("/:id/restore", ctrl.Backup.RestoreRecord)
			backups.GET("/settings", ctrl.Backup.GetSettings)
			backups.PUT("/settings", ctrl.Backup.UpdateSettings)
		}

		authed.GET("/activities", supervisor, ctrl.Dashboard.Activities)

		scoped := authed.Group("", auth.RequireStore())

		categories := scoped.Group("/categories")
		{
			categories.GET("", ctrl.Category.List)
			categories.GET("/:id", ctrl.Category.Get)
			categories.POST("", supervisor, ctrl.Category.Create)
			categories.PUT("/:id", supervisor, ctrl.Category.Update)
			categories.DELETE("/:id", supervisor, ctrl.Category.Delete)
		}

		products := scoped.Group("/products")
		{
			products.GET("", ctrl.Product.List)
			products.GET("/:id", ctrl.Product.Get)
			products.POST("", supervisor, ctrl.Product.Create)
			products.PUT("/:id", supervisor, ctrl.Product.Update)
			products.DELETE("/:id", supervisor, ctrl.Product.Delete)
		}

		orders := scoped.Group("/orders")
		{
			orders.GET("", ctrl.Order.List)
			orders.GET("/export", ctrl.Order.Export)
			orders.GET("/:id", ctrl.Order.Get)
			orders.GET("/:id/receipt", ctrl.Order.Receipt)
			orders.POST("", ctrl.Order.Create)
			orders.POST("/:id/advance", ctrl.Order.Advance)
			orders.PUT("/:id/status", ctrl.Order.UpdateStatus)
		}

		scoped.POST("/pdv/checkout", ctrl.Order.Checkout)

		clients := scoped.Group("/clients")
		{
			clients.GET("", ctrl.Client.List)
			clients.GET("/:id", ctrl.Client.Get)
			clients.GET("/:id/orders", ctrl.Client.Orders)
			clients.POST("", ctrl.Client.Create)
			clients.PUT("/:id", ctrl.Client.Update)
			clients.DELETE("/:id", supervisor, ctrl.Client.Delete)
		}

		scoped.GET("/dashboard/overview", supervisor, ctrl.Dashboard.Overview)

		reports := scoped.Group("/reports", supervisor)
		{
			reports.GET("/:type", ctrl.Dashboard.Report)
			reports.GET("/:type/export", ctrl.Dashboard.ExportReport)
		}

		scoped.POST("/uploads/product-image", supervisor, ctrl.Upload.ProductImage)
	}

	router.GET("/ws/orders", auth.Authenticate(), ctrl.Board.Connect)

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			// credentials cannot be combined with a wildcard origin
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			break
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = allowedOrigins
	}
	return cors.New(cfg)
}
