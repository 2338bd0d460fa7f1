package models

import (
	"time"
)

type TripStatus string

const (
	TripStatusActive    TripStatus = "active"    // Активная поездка
	TripStatusCompleted TripStatus = "completed" // Завершенная поездка, терминальный статус
)

type Trip struct {
	ID                   uint       `json:"id" gorm:"primaryKey"`
	VehicleID            uint       `json:"vehicle_id" gorm:"not null;index"`
	SourceCampusID       uint       `json:"source_campus_id" gorm:"not null"`
	DestinationCampusID  uint       `json:"destination_campus_id" gorm:"not null"`
	StartTime            time.Time  `json:"start_time" gorm:"type:timestamp with time zone"`
	EndTime              *time.Time `json:"end_time,omitempty" gorm:"type:timestamp with time zone"`
	StartLat             float64    `json:"start_lat"`
	StartLongitude       float64    `json:"start_longitude"`
	EndLat               float64    `json:"end_lat"`
	EndLongitude         float64    `json:"end_longitude"`
	TotalDistanceKm      float64    `json:"total_distance_km" gorm:"default:0.0"`
	BatteryConsumedPct   float64    `json:"battery_consumed_percent" gorm:"column:battery_consumed_percent;default:0.0"`
	AverageSpeedKmph     float64    `json:"average_speed_kmph" gorm:"default:0.0"`
	HarshAccelerationCnt int        `json:"harsh_acceleration_count" gorm:"column:harsh_acceleration_count;default:0"`
	HarshBrakingCnt      int        `json:"harsh_braking_count" gorm:"column:harsh_braking_count;default:0"`
	OverspeedCnt         int        `json:"overspeed_count" gorm:"column:overspeed_count;default:0"`
	DrivingScore         int        `json:"driving_score"`
	DriverRating         string     `json:"driver_rating" gorm:"type:varchar(2)"`
	Status               TripStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`
}

func (Trip) TableName() string {
	return "trips"
}

// ClampDrivingScore удерживает оценку вождения в пределах [0, 100]
func ClampDrivingScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// TripSummary публичное представление завершенной поездки.
// Отвязано от колонок таблицы: при переименовании колонки меняется
// только ToSummary, а не все обработчики.
type TripSummary struct {
	ID                   uint       `json:"id"`
	VehicleID            uint       `json:"vehicle_id"`
	DistanceKm           float64    `json:"distance_km"`
	AvgSpeedKmph         float64    `json:"avg_speed_kmph"`
	BatteryUsedPct       float64    `json:"battery_used_pct"`
	HarshAccelerationCnt int        `json:"harsh_acceleration_count"`
	HarshBrakingCnt      int        `json:"harsh_braking_count"`
	OverspeedCnt         int        `json:"overspeed_count"`
	DrivingScore         int        `json:"driving_score"`
	Rating               string     `json:"rating"`
	Status               TripStatus `json:"status"`
	StartedAt            time.Time  `json:"started_at"`
	EndedAt              *time.Time `json:"ended_at,omitempty"`
}

func (t *Trip) ToSummary() TripSummary {
	return TripSummary{
		ID:                   t.ID,
		VehicleID:            t.VehicleID,
		DistanceKm:           t.TotalDistanceKm,
		AvgSpeedKmph:         t.AverageSpeedKmph,
		BatteryUsedPct:       t.BatteryConsumedPct,
		HarshAccelerationCnt: t.HarshAccelerationCnt,
		HarshBrakingCnt:      t.HarshBrakingCnt,
		OverspeedCnt:         t.OverspeedCnt,
		DrivingScore:         t.DrivingScore,
		Rating:               t.DriverRating,
		Status:               t.Status,
		StartedAt:            t.StartTime,
		EndedAt:              t.EndTime,
	}
}
