package handlers

import (
	"net/http"
	"strconv"

	"campus-ev-backend/internal/models"
	"campus-ev-backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TripStart начинает поездку на конкретной машине пользователя
func TripStart(db *gorm.DB, trips *services.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			VehicleID           uint `json:"vehicle_id" binding:"required"`
			SourceCampusID      uint `json:"source_campus_id" binding:"required"`
			DestinationCampusID uint `json:"destination_campus_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат данных"})
			return
		}

		if _, ok := authorizeVehicle(c, db, req.VehicleID); !ok {
			return
		}

		var source, dest models.Campus
		if err := db.First(&source, req.SourceCampusID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Кампус отправления не найден"})
			return
		}
		if err := db.First(&dest, req.DestinationCampusID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Кампус назначения не найден"})
			return
		}

		trip, err := trips.Start(req.VehicleID, req.SourceCampusID, req.DestinationCampusID,
			source.Latitude, source.Longitude, dest.Latitude, dest.Longitude)
		if err != nil {
			abortWithServiceError(c, err)
			return
		}

		c.JSON(http.StatusCreated, trip)
	}
}

// TripRequest заявка на поездку между кампусами: назначается ближайшая
// свободная машина у кампуса отправления
func TripRequest(db *gorm.DB, trips *services.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			SourceCampusID      uint `json:"source_campus_id" binding:"required"`
			DestinationCampusID uint `json:"destination_campus_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат данных"})
			return
		}

		userID, _ := c.Get("user_id")

		trip, vehicle, err := trips.AssignAndStart(c.Request.Context(), req.SourceCampusID, req.DestinationCampusID)
		if err != nil {
			abortWithServiceError(c, err)
			return
		}

		// Фиксируем заявку студента уже с назначенной машиной
		rideRequest := models.RideRequest{
			StudentID:  userID.(uint),
			VehicleID:  &vehicle.ID,
			PickupLat:  trip.StartLat,
			PickupLong: trip.StartLongitude,
			Status:     models.RideRequestStatusAssigned,
		}
		if err := db.Create(&rideRequest).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при сохранении заявки"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"trip":    trip,
			"vehicle": vehicle,
			"request": rideRequest,
		})
	}
}

// TripEnd завершает активную поездку машины и возвращает итоговую
// статистику с оценкой вождения
func TripEnd(db *gorm.DB, trips *services.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			VehicleID uint `json:"vehicle_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Требуется поле vehicle_id"})
			return
		}

		if _, ok := authorizeVehicle(c, db, req.VehicleID); !ok {
			return
		}

		summary, err := trips.End(req.VehicleID)
		if err != nil {
			abortWithServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Поездка завершена",
			"trip":    summary,
		})
	}
}

// TripHistory история поездок машины
func TripHistory(db *gorm.DB, trips *services.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicleID, err := strconv.ParseUint(c.Param("vehicle_id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный id машины"})
			return
		}

		if _, ok := authorizeVehicle(c, db, uint(vehicleID)); !ok {
			return
		}

		history, err := trips.History(uint(vehicleID))
		if err != nil {
			abortWithServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, history)
	}
}

// TripAnalytics сводка по завершенным поездкам пользователя
func TripAnalytics(trips *services.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		analytics, err := trips.Analytics(userID.(uint))
		if err != nil {
			abortWithServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, analytics)
	}
}

// TripPoints точки завершенной поездки для отрисовки маршрута на карте
func TripPoints(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tripID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный id поездки"})
			return
		}

		var trip models.Trip
		if err := db.First(&trip, tripID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Поездка не найдена"})
			return
		}

		if _, ok := authorizeVehicle(c, db, trip.VehicleID); !ok {
			return
		}

		var points []models.TrackingPoint
		if err := db.Where("trip_id = ?", tripID).Order("recorded_at").Find(&points).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось загрузить точки поездки"})
			return
		}

		coordinates := make([][2]float64, 0, len(points))
		for _, p := range points {
			coordinates = append(coordinates, [2]float64{p.Latitude, p.Longitude})
		}

		c.JSON(http.StatusOK, gin.H{
			"trip":        trip.ToSummary(),
			"coordinates": coordinates,
		})
	}
}
