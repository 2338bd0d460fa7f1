package handlers

import (
	"errors"
	"net/http"

	"campus-ev-backend/internal/models"
	"campus-ev-backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// abortWithServiceError переводит ошибки ядра в HTTP статусы
func abortWithServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrVehicleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Машина не найдена"})
	case errors.Is(err, services.ErrCampusNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Кампус не найден"})
	case errors.Is(err, services.ErrVehicleUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": "Машина уже на другой поездке"})
	case errors.Is(err, services.ErrDuplicateActiveTrip):
		c.JSON(http.StatusConflict, gin.H{"error": "У машины уже есть активная поездка"})
	case errors.Is(err, services.ErrNoActiveTrip):
		c.JSON(http.StatusBadRequest, gin.H{"error": "У машины нет активной поездки"})
	case errors.Is(err, services.ErrInvalidCoordinate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные координаты"})
	case errors.Is(err, services.ErrNoVehiclesAvailable):
		c.JSON(http.StatusNotFound, gin.H{"error": "Рядом нет свободных машин"})
	case errors.Is(err, services.ErrNoTrackingHistory):
		c.JSON(http.StatusBadRequest, gin.H{"error": "У машины нет истории перемещений"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Внутренняя ошибка сервера"})
	}
}

// authorizeVehicle проверяет, что машина существует и принадлежит
// текущему пользователю. Ядро доверяет уже проверенной паре
// (пользователь, машина), проверка живет на границе транспорта.
func authorizeVehicle(c *gin.Context, db *gorm.DB, vehicleID uint) (*models.Vehicle, bool) {
	userID, _ := c.Get("user_id")
	role, _ := c.Get("role")

	var vehicle models.Vehicle
	if err := db.First(&vehicle, vehicleID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Машина не найдена"})
		return nil, false
	}

	if role != "admin" && vehicle.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Машина принадлежит другому пользователю"})
		return nil, false
	}

	return &vehicle, true
}
