package handlers

import (
	"net/http"
	"strconv"

	"campus-ev-backend/internal/models"
	"campus-ev-backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// VehicleCreate добавляет машину пользователю
func VehicleCreate(vehicles *services.VehicleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name               string  `json:"name" binding:"required"`
			LicensePlate       string  `json:"license_plate" binding:"required"`
			Model              string  `json:"model"`
			BatteryCapacityKwh float64 `json:"battery_capacity_kwh"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат данных"})
			return
		}

		userID, _ := c.Get("user_id")

		vehicle, err := vehicles.Create(userID.(uint), req.Name, req.LicensePlate, req.Model, req.BatteryCapacityKwh)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, vehicle)
	}
}

// VehicleList возвращает машины пользователя с зарядом батареи
func VehicleList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var vehicles []models.Vehicle
		if err := db.Where("user_id = ?", userID).Order("id").Find(&vehicles).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось загрузить машины"})
			return
		}

		cards := make([]models.VehicleCard, 0, len(vehicles))
		for _, vehicle := range vehicles {
			card := models.VehicleCard{
				ID:                 vehicle.ID,
				Name:               vehicle.Name,
				LicensePlate:       vehicle.LicensePlate,
				Model:              vehicle.Model,
				BatteryCapacityKwh: vehicle.BatteryCapacityKwh,
				Status:             vehicle.Status,
				CampusID:           vehicle.CampusID,
			}

			var battery models.BatteryStatus
			if err := db.Where("vehicle_id = ?", vehicle.ID).First(&battery).Error; err == nil {
				card.BatteryPercentage = battery.CurrentPercentage
			}

			cards = append(cards, card)
		}

		c.JSON(http.StatusOK, cards)
	}
}

// VehicleBattery возвращает снимок батареи машины
func VehicleBattery(db *gorm.DB, vehicles *services.VehicleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный id машины"})
			return
		}

		if _, ok := authorizeVehicle(c, db, uint(vehicleID)); !ok {
			return
		}

		snapshot, err := vehicles.BatterySnapshot(uint(vehicleID))
		if err != nil {
			abortWithServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, snapshot)
	}
}

// VehicleNearest ищет ближайшую свободную машину к заданной точке
func VehicleNearest(vehicles *services.VehicleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
		lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
		if errLat != nil || errLng != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Требуются параметры lat и lng"})
			return
		}

		vehicle, distance, err := vehicles.NearestAvailable(c.Request.Context(), lat, lng)
		if err != nil {
			abortWithServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.NearestVehicleResponse{
			Vehicle: models.VehicleCard{
				ID:                 vehicle.ID,
				Name:               vehicle.Name,
				LicensePlate:       vehicle.LicensePlate,
				Model:              vehicle.Model,
				BatteryCapacityKwh: vehicle.BatteryCapacityKwh,
				Status:             vehicle.Status,
				CampusID:           vehicle.CampusID,
			},
			DistanceKm: distance,
		})
	}
}
