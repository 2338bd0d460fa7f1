package models

import (
	"errors"
	"time"
)

type VehicleStatus string

const (
	VehicleStatusAvailable VehicleStatus = "available" // Машина свободна
	VehicleStatusBusy      VehicleStatus = "busy"      // Машина на активной поездке
)

type Vehicle struct {
	ID                 uint          `json:"id" gorm:"primaryKey"`
	UserID             uint          `json:"user_id" gorm:"not null;index"`
	Name               string        `json:"name" gorm:"not null;type:varchar(100)"`
	LicensePlate       string        `json:"license_plate" gorm:"unique;not null;type:varchar(20)"`
	Model              string        `json:"model" gorm:"type:varchar(50)"`
	BatteryCapacityKwh float64       `json:"battery_capacity_kwh" gorm:"default:75.0"`
	Status             VehicleStatus `json:"status" gorm:"type:varchar(20);default:'available';index"`
	CampusID           *uint         `json:"campus_id,omitempty" gorm:"default:null"`
	CreatedAt          time.Time     `json:"created_at" gorm:"autoCreateTime;type:timestamp with time zone"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

// ValidateBatteryCapacity проверяет емкость батареи перед записью
func ValidateBatteryCapacity(capacityKwh float64) error {
	if capacityKwh <= 0 {
		return errors.New("емкость батареи должна быть положительной")
	}
	return nil
}

// VehicleCard ответ для списка машин пользователя
type VehicleCard struct {
	ID                 uint          `json:"id"`
	Name               string        `json:"name"`
	LicensePlate       string        `json:"license_plate"`
	Model              string        `json:"model,omitempty"`
	BatteryCapacityKwh float64       `json:"battery_capacity_kwh"`
	Status             VehicleStatus `json:"status"`
	BatteryPercentage  float64       `json:"battery_percentage"`
	CampusID           *uint         `json:"campus_id,omitempty"`
}

// NearestVehicleResponse результат поиска ближайшей свободной машины
type NearestVehicleResponse struct {
	Vehicle    VehicleCard `json:"vehicle"`
	DistanceKm float64     `json:"distance_km"`
}
