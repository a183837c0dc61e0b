package routes

import (
	"github.com/labstack/echo/v4"

	"EstateHub/cache"
	"EstateHub/handlers"
	"EstateHub/middleware"
	"EstateHub/store"
)

func RegisterRoutes(e *echo.Echo, cch *cache.Cache) {
	listingStore := store.NewListingStore(cch)
	contactStore := store.NewContactStore(cch)
	userStore := store.NewUserStore()

	lc := handlers.NewListingController(listingStore, cch)
	cc := handlers.NewContactController(contactStore)
	uc := handlers.NewUserController(userStore)
	sc := handlers.NewStatsController(listingStore, contactStore, cch)

	e.GET("/health", handlers.HealthCheck)

	api := e.Group("/api")
	api.GET("/listings", lc.List)
	api.GET("/listings/:id", lc.Get)
	api.POST("/listings/:id/ratings", lc.Rate)
	api.POST("/contacts", cc.Submit)
	api.POST("/auth/register", uc.Register)
	api.POST("/auth/login", uc.Login)
	api.GET("/auth/me", uc.GetProfile, middleware.JWTMiddleware())

	admin := api.Group("/admin", middleware.JWTMiddleware(), middleware.AdminOnly())
	admin.POST("/listings", lc.Create)
	admin.PUT("/listings/:id", lc.Update)
	admin.DELETE("/listings/:id", lc.Delete)
	admin.PUT("/listings/:id/feature", lc.ToggleFeature)
	admin.GET("/contacts", cc.List)
	admin.GET("/contacts/export", cc.ExportCSV)
	admin.GET("/contacts/:id", cc.Get)
	admin.PUT("/contacts/:id/status", cc.UpdateStatus)
	admin.POST("/contacts/:id/notes", cc.AddNote)
	admin.DELETE("/contacts/:id", cc.Delete)
	admin.GET("/stats", sc.Stats)
}
