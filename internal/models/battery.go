package models

import "time"

// BatteryStatus состояние батареи, одна запись на машину
type BatteryStatus struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	VehicleID         uint      `json:"vehicle_id" gorm:"unique;not null"`
	CurrentPercentage float64   `json:"current_percentage" gorm:"default:100.0"`
	Voltage           float64   `json:"voltage"`
	Temperature       float64   `json:"temperature"`
	LastUpdated       time.Time `json:"last_updated" gorm:"autoUpdateTime;type:timestamp with time zone"`
}

func (BatteryStatus) TableName() string {
	return "battery_status"
}

// ClampPercentage удерживает заряд в пределах [0, 100] при каждой записи
func ClampPercentage(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

// SetPercentage записывает заряд с обязательным клампом
func (b *BatteryStatus) SetPercentage(value float64) {
	b.CurrentPercentage = ClampPercentage(value)
}

// BatterySnapshot ответ на обновление локации во время живого трекинга
type BatterySnapshot struct {
	Percentage      float64 `json:"battery"`
	LowBatteryAlert bool    `json:"low_battery_alert"`
}
