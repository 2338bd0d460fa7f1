package models

import "time"

// TrackingPoint одна GPS-точка телеметрии, неизменяемая после вставки
type TrackingPoint struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	VehicleID  uint      `json:"vehicle_id" gorm:"not null;index"`
	TripID     *uint     `json:"trip_id,omitempty" gorm:"index;default:null"`
	Latitude   float64   `json:"latitude" gorm:"not null"`
	Longitude  float64   `json:"longitude" gorm:"not null"`
	Speed      float64   `json:"speed" gorm:"default:0.0"`
	RecordedAt time.Time `json:"recorded_at" gorm:"index;type:timestamp with time zone"`
}

func (TrackingPoint) TableName() string {
	return "vehicle_tracking"
}

// LocationUpdate структура запроса обновления локации
type LocationUpdate struct {
	VehicleID uint    `json:"vehicle_id" binding:"required"`
	Latitude  float64 `json:"lat" binding:"required"`
	Longitude float64 `json:"lng" binding:"required"`
}
