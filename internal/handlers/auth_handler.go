package handlers

import (
	"net/http"

	"campus-ev-backend/internal/models"
	"campus-ev-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Token   string              `json:"token,omitempty"`
	User    models.UserResponse `json:"user,omitempty"`
}

// AuthRegister регистрирует нового пользователя и выдает токен
func AuthRegister(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, AuthResponse{
				Success: false,
				Message: "Неверный формат данных",
			})
			return
		}

		// Валидация на границе модели: нормализуем до записи
		username, err := models.NormalizeUsername(req.Username)
		if err != nil {
			c.JSON(http.StatusBadRequest, AuthResponse{Success: false, Message: err.Error()})
			return
		}
		email, err := models.NormalizeEmail(req.Email)
		if err != nil {
			c.JSON(http.StatusBadRequest, AuthResponse{Success: false, Message: err.Error()})
			return
		}

		var existing models.User
		if result := db.Where("email = ? OR username = ?", email, username).First(&existing); result.Error == nil {
			c.JSON(http.StatusBadRequest, AuthResponse{
				Success: false,
				Message: "Пользователь с таким email или именем уже существует",
			})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, AuthResponse{
				Success: false,
				Message: "Ошибка при хешировании пароля",
			})
			return
		}

		user := models.User{
			Username:     username,
			Email:        email,
			PasswordHash: string(hash),
			Role:         "user",
		}
		if result := db.Create(&user); result.Error != nil {
			c.JSON(http.StatusInternalServerError, AuthResponse{
				Success: false,
				Message: "Ошибка при создании пользователя",
			})
			return
		}

		token, err := utils.GenerateJWT(user.ID, user.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, AuthResponse{
				Success: false,
				Message: "Ошибка при создании токена",
			})
			return
		}

		c.JSON(http.StatusOK, AuthResponse{
			Success: true,
			Token:   token,
			User:    user.ToResponse(),
		})
	}
}

// AuthLogin проверяет пароль и выдает токен
func AuthLogin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, AuthResponse{
				Success: false,
				Message: "Неверный формат данных",
			})
			return
		}

		email, err := models.NormalizeEmail(req.Email)
		if err != nil {
			c.JSON(http.StatusBadRequest, AuthResponse{Success: false, Message: err.Error()})
			return
		}

		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, AuthResponse{
				Success: false,
				Message: "Неверный email или пароль",
			})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, AuthResponse{
				Success: false,
				Message: "Неверный email или пароль",
			})
			return
		}

		token, err := utils.GenerateJWT(user.ID, user.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, AuthResponse{
				Success: false,
				Message: "Ошибка при создании токена",
			})
			return
		}

		c.JSON(http.StatusOK, AuthResponse{
			Success: true,
			Token:   token,
			User:    user.ToResponse(),
		})
	}
}

// GetCurrentUser возвращает профиль текущего пользователя
func GetCurrentUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден"})
			return
		}

		c.JSON(http.StatusOK, user.ToResponse())
	}
}
