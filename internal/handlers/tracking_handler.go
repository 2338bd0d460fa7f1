package handlers

import (
	"net/http"

	"campus-ev-backend/internal/models"
	"campus-ev-backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TrackingUpdateLocation принимает одну GPS-точку от машины
func TrackingUpdateLocation(db *gorm.DB, telemetry *services.TelemetryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LocationUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Требуются поля vehicle_id, lat, lng"})
			return
		}

		if _, ok := authorizeVehicle(c, db, req.VehicleID); !ok {
			return
		}

		snapshot, err := telemetry.RecordLocation(c.Request.Context(), req.VehicleID, req.Latitude, req.Longitude)
		if err != nil {
			abortWithServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, snapshot)
	}
}

// TrackingSimulate делает демо-шаг: следующая точка от последней
// известной позиции машины по скорости и направлению
func TrackingSimulate(db *gorm.DB, telemetry *services.TelemetryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			VehicleID    uint    `json:"vehicle_id" binding:"required"`
			SpeedKmh     float64 `json:"speed_kmh"`
			DirectionDeg float64 `json:"direction_deg"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Требуется поле vehicle_id"})
			return
		}
		if req.SpeedKmh == 0 {
			req.SpeedKmh = 60
		}

		if _, ok := authorizeVehicle(c, db, req.VehicleID); !ok {
			return
		}

		snapshot, lat, lng, err := telemetry.SimulateNext(c.Request.Context(), req.VehicleID, req.SpeedKmh, req.DirectionDeg)
		if err != nil {
			abortWithServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"lat":     lat,
			"lng":     lng,
			"battery": snapshot,
		})
	}
}
