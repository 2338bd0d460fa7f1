package services

import (
	"math"

	"campus-ev-backend/internal/models"
)

const (
	speedLimitKmh  = 80.0
	harshThreshold = 3.0

	// DefaultBatteryCapacityKwh подставляется, когда у машины не указана емкость
	DefaultBatteryCapacityKwh = 75.0
)

// TripStats итог анализа точек завершенной поездки
type TripStats struct {
	TotalDistanceKm    float64
	HarshAccelCount    int
	HarshBrakeCount    int
	OverspeedCount     int
	BatteryConsumedPct float64
}

// AnalyzeTripPoints пересчитывает статистику поездки по всем ее точкам в
// порядке recorded_at. Результат авторитетный: при завершении поездки он
// перезаписывает накопленные на лету суммы, чтобы не тащить ошибку округления.
func AnalyzeTripPoints(points []models.TrackingPoint, batteryCapacityKwh float64) TripStats {
	var stats TripStats
	var totalEnergy float64
	prevSpeed := 0.0

	for i := 1; i < len(points); i++ {
		dist := haversineKm(
			points[i-1].Latitude, points[i-1].Longitude,
			points[i].Latitude, points[i].Longitude,
		)
		stats.TotalDistanceKm += dist
		totalEnergy += EnergyDrainKwh(dist, "")

		// Нулевая или отрицательная разница времени означает дубликат
		// метки либо сбой часов: такие сегменты не классифицируем
		timeDiff := points[i].RecordedAt.Sub(points[i-1].RecordedAt).Seconds()
		if timeDiff <= 0 {
			continue
		}

		speed := dist / (timeDiff / 3600)
		if speed > speedLimitKmh {
			stats.OverspeedCount++
		}

		// Прокси-метрика ускорения из исходной модели скоринга, не
		// физически калиброванное значение
		accel := (speed - prevSpeed) / (timeDiff / 3600) / 3600 * 1000
		if accel > harshThreshold {
			stats.HarshAccelCount++
		} else if accel < -harshThreshold {
			stats.HarshBrakeCount++
		}
		prevSpeed = speed
	}

	stats.TotalDistanceKm = round2(stats.TotalDistanceKm)
	if batteryCapacityKwh > 0 {
		stats.BatteryConsumedPct = round2((totalEnergy / batteryCapacityKwh) * 100)
	}

	return stats
}

// DrivingScore оценка вождения 0-100 по взвешенным штрафам
func DrivingScore(stats TripStats) int {
	score := 100 - (stats.OverspeedCount*2 + stats.HarshAccelCount*3 + stats.HarshBrakeCount*3)
	if score < 0 {
		score = 0
	}
	return score
}

// RatingForScore буквенный рейтинг водителя по оценке
func RatingForScore(score int) string {
	switch {
	case score >= 85:
		return "A"
	case score >= 70:
		return "B"
	case score >= 50:
		return "C"
	default:
		return "D"
	}
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
