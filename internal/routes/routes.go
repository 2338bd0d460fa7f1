package routes

import (
	"campus-ev-backend/internal/handlers"
	"campus-ev-backend/internal/middleware"
	"campus-ev-backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(api *gin.RouterGroup, db *gorm.DB, vehicles *services.VehicleService, telemetry *services.TelemetryService, trips *services.TripService) {
	// Публичные маршруты для аутентификации
	auth := api.Group("/auth")
	{
		auth.POST("/register", handlers.AuthRegister(db))
		auth.POST("/login", handlers.AuthLogin(db))
	}

	// Защищенные маршруты (требуют аутентификации)
	protected := api.Group("")
	protected.Use(middleware.JWTAuth())
	{
		// Получение информации о текущем пользователе
		protected.GET("/user", handlers.GetCurrentUser(db))

		// Роуты для машин
		protected.POST("/vehicles", handlers.VehicleCreate(vehicles))
		protected.GET("/vehicles", handlers.VehicleList(db))
		protected.GET("/vehicles/nearest", handlers.VehicleNearest(vehicles))
		protected.GET("/vehicles/:id/battery", handlers.VehicleBattery(db, vehicles))

		// Роуты для кампусов
		protected.GET("/campuses", handlers.CampusList(db))
		protected.POST("/campuses", handlers.CampusCreate(db))

		// Роуты для телеметрии
		protected.POST("/tracking/location", handlers.TrackingUpdateLocation(db, telemetry))
		protected.POST("/tracking/simulate", handlers.TrackingSimulate(db, telemetry))

		// Роуты для поездок
		protected.POST("/trips/start", handlers.TripStart(db, trips))
		protected.POST("/trips/request", handlers.TripRequest(db, trips))
		protected.POST("/trips/end", handlers.TripEnd(db, trips))
		protected.GET("/trips/history/:vehicle_id", handlers.TripHistory(db, trips))
		protected.GET("/trips/analytics", handlers.TripAnalytics(trips))
		protected.GET("/trips/:id/points", handlers.TripPoints(db))
	}
}
