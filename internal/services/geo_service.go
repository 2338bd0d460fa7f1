package services

import (
	"math"
)

const (
	earthRadiusKm = 6371.0

	// Средний расход стандартного электромобиля: 0.15 - 0.25 кВт·ч на км
	avgConsumptionKwhPerKm = 0.20
)

// ValidateCoordinate проверяет широту и долготу на NaN/Inf и диапазон
func ValidateCoordinate(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return ErrInvalidCoordinate
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}

// DistanceKm расстояние по дуге большого круга между двумя точками в километрах
func DistanceKm(lat1, lng1, lat2, lng2 float64) (float64, error) {
	if err := ValidateCoordinate(lat1, lng1); err != nil {
		return 0, err
	}
	if err := ValidateCoordinate(lat2, lng2); err != nil {
		return 0, err
	}
	return haversineKm(lat1, lng1, lat2, lng2), nil
}

// haversineKm формула гаверсинусов для уже проверенных координат
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// EnergyDrainKwh линейная модель расхода батареи от пройденной дистанции.
// Параметр vehicleModel принимается, но пока не используется: расход
// фиксированный независимо от модели машины.
func EnergyDrainKwh(distanceKm float64, vehicleModel string) float64 {
	_ = vehicleModel
	return distanceKm * avgConsumptionKwhPerKm
}

// SimulateNextLocation следующая GPS-точка по скорости и направлению,
// упрощенное линейное перемещение для демо-симуляции
func SimulateNextLocation(lat, lng, speedKmh, directionDeg float64) (float64, float64) {
	// Шаг за 10 секунд движения; 1 градус широты это примерно 111 км
	distanceStep := (speedKmh / 3600) * 10

	latStep := (distanceStep / 111) * math.Cos(directionDeg*math.Pi/180)

	cosLat := math.Cos(lat * math.Pi / 180)
	if math.Abs(cosLat) < 1e-10 {
		cosLat = 1e-10 // У полюсов знаменатель вырождается
	}
	lngStep := (distanceStep / (111 * cosLat)) * math.Sin(directionDeg*math.Pi/180)

	return lat + latStep, lng + lngStep
}
