package handlers

import (
	"net/http"

	"campus-ev-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CampusList возвращает все кампусы
func CampusList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var campuses []models.Campus
		if err := db.Order("id").Find(&campuses).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось загрузить кампусы"})
			return
		}

		c.JSON(http.StatusOK, campuses)
	}
}

// CampusCreate добавляет кампус, доступно только администратору
func CampusCreate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		if role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Только администратор может добавлять кампусы"})
			return
		}

		var req struct {
			Name      string  `json:"name" binding:"required"`
			Latitude  float64 `json:"latitude" binding:"required"`
			Longitude float64 `json:"longitude" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат данных"})
			return
		}

		campus := models.Campus{
			Name:      req.Name,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
		}
		if err := db.Create(&campus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании кампуса"})
			return
		}

		c.JSON(http.StatusCreated, campus)
	}
}
