// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nishantmakwanaa/clothing-store/internal/domain/product"
	"github.com/nishantmakwanaa/clothing-store/internal/domain/upload"
	"github.com/nishantmakwanaa/clothing-store/internal/domain/user"
	"github.com/nishantmakwanaa/clothing-store/internal/interfaces/http/handlers"
	"github.com/nishantmakwanaa/clothing-store/internal/interfaces/http/middleware"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/auth"
	"github.com/sirupsen/logrus"
)

// Dependencies are the services the API routes are built from
type Dependencies struct {
	JWT      *auth.JWTManager
	Users    *user.Service
	Products *product.Service
	Uploads  *upload.Service
	Log      logrus.FieldLogger
}

// SetupUserRoutes sets up account routes
func SetupUserRoutes(rg *gin.RouterGroup, deps Dependencies) {
	userHandler := handlers.NewUserHandler(deps.Users)

	users := rg.Group("/users")
	{
		users.POST("", userHandler.Register)
		users.POST("/login", userHandler.Login)
		users.POST("/forgot-password", userHandler.ForgotPassword)
		users.POST("/reset-password", userHandler.ResetPassword)

		protected := users.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWT))
		{
			protected.GET("/:id", userHandler.GetUser)
			protected.PUT("/:id", userHandler.UpdateUser)
		}
	}
}

// SetupCatalogRoutes sets up product and reference data routes
func SetupCatalogRoutes(rg *gin.RouterGroup, deps Dependencies) {
	catalogHandler := handlers.NewCatalogHandler(deps.Products)
	admin := []gin.HandlerFunc{middleware.AuthMiddleware(deps.JWT), middleware.AdminMiddleware()}

	rg.GET("/categories", catalogHandler.ListCategories)
	rg.POST("/categories", append(admin, catalogHandler.CreateCategory)...)
	rg.GET("/colors", catalogHandler.ListColors)
	rg.POST("/colors", append(admin, catalogHandler.CreateColor)...)
	rg.GET("/sizes", catalogHandler.ListSizes)
	rg.POST("/sizes", append(admin, catalogHandler.CreateSize)...)

	products := rg.Group("/products")
	{
		public := products.Group("")
		public.Use(middleware.OptionalAuthMiddleware(deps.JWT))
		{
			public.GET("", catalogHandler.ListProducts)
			public.GET("/:id", catalogHandler.GetProduct)
		}

		managed := products.Group("")
		managed.Use(admin...)
		{
			managed.POST("", catalogHandler.CreateProduct)
			managed.PUT("/:id", catalogHandler.UpdateProduct)
			managed.DELETE("/:id", catalogHandler.DeleteProduct)
		}
	}
}

// SetupUploadRoutes sets up the image upload route
func SetupUploadRoutes(rg *gin.RouterGroup, deps Dependencies) {
	uploadHandler := handlers.NewUploadHandler(deps.Uploads, deps.Log)
	rg.POST("/upload", middleware.AuthMiddleware(deps.JWT), uploadHandler.UploadImage)
}

// SetupRoutes mounts every API route on rg
func SetupRoutes(rg *gin.RouterGroup, deps Dependencies) {
	SetupUserRoutes(rg, deps)
	SetupCatalogRoutes(rg, deps)
	SetupUploadRoutes(rg, deps)
}
