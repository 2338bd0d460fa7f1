package models

import "time"

type RideRequestStatus string

const (
	RideRequestStatusWaiting   RideRequestStatus = "waiting"
	RideRequestStatusAssigned  RideRequestStatus = "assigned"
	RideRequestStatusCompleted RideRequestStatus = "completed"
)

// RideRequest заявка студента на поездку между кампусами
type RideRequest struct {
	ID         uint              `json:"id" gorm:"primaryKey"`
	StudentID  uint              `json:"student_id" gorm:"not null;index"`
	VehicleID  *uint             `json:"vehicle_id,omitempty" gorm:"default:null"`
	PickupLat  float64           `json:"pickup_lat" gorm:"not null"`
	PickupLong float64           `json:"pickup_long" gorm:"not null"`
	Status     RideRequestStatus `json:"status" gorm:"type:varchar(20);default:'waiting';index"`
	CreatedAt  time.Time         `json:"created_at" gorm:"autoCreateTime;type:timestamp with time zone"`
}

func (RideRequest) TableName() string {
	return "ride_requests"
}
