package services

import (
	"context"
	"log"
	"time"

	"campus-ev-backend/internal/middleware"
	"campus-ev-backend/internal/models"
	"campus-ev-backend/internal/websocket"
)

// LowBatteryThreshold порог предупреждения о низком заряде в процентах
const LowBatteryThreshold = 20.0

// TelemetryService принимает точки телеметрии по одной и инкрементально
// обновляет дистанцию активной поездки и заряд батареи
type TelemetryService struct {
	store Store
	cache *LocationCache
	now   func() time.Time
}

func NewTelemetryService(store Store, cache *LocationCache) *TelemetryService {
	return &TelemetryService{
		store: store,
		cache: cache,
		now:   time.Now,
	}
}

// RecordLocation записывает новую GPS-точку машины. Если у машины есть
// активная поездка, точка привязывается к ней, а дистанция и заряд
// пересчитываются инкрементально. Вставка точки и обновления поездки с
// батареей фиксируются одной транзакцией: либо все, либо ничего.
func (s *TelemetryService) RecordLocation(ctx context.Context, vehicleID uint, lat, lng float64) (*models.BatterySnapshot, error) {
	if err := ValidateCoordinate(lat, lng); err != nil {
		return nil, err
	}

	vehicle, err := s.store.VehicleByID(vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, ErrVehicleNotFound
	}

	var battery *models.BatteryStatus
	var activeTrip *models.Trip
	recordedAt := s.now()

	err = s.store.Transaction(func(tx Store) error {
		activeTrip, err = tx.ActiveTripByVehicle(vehicleID)
		if err != nil {
			return err
		}

		point := &models.TrackingPoint{
			VehicleID:  vehicleID,
			Latitude:   lat,
			Longitude:  lng,
			RecordedAt: recordedAt,
		}
		if activeTrip != nil {
			point.TripID = &activeTrip.ID
		}
		if err := tx.CreateTrackingPoint(point); err != nil {
			return err
		}

		battery, err = tx.BatteryByVehicle(vehicleID)
		if err != nil {
			return err
		}

		if activeTrip == nil {
			// Точка вне поездки сохраняется непривязанной, суммы
			// не трогаем
			return nil
		}

		// Предыдущая точка берется по порядку вставки (id), а не по
		// recorded_at: так инкремент стабилен при перекосе часов.
		// Финализация при этом идет по recorded_at, поэтому суммы
		// могут разойтись — расхождение унаследовано намеренно.
		prev, err := tx.PreviousTrackingPoint(vehicleID)
		if err != nil {
			return err
		}
		if prev == nil {
			return nil
		}

		dist := haversineKm(prev.Latitude, prev.Longitude, lat, lng)
		activeTrip.TotalDistanceKm += dist

		if battery != nil {
			capacity := vehicle.BatteryCapacityKwh
			if capacity <= 0 {
				capacity = DefaultBatteryCapacityKwh
			}
			drainKwh := EnergyDrainKwh(dist, vehicle.Model)
			drainPct := (drainKwh / capacity) * 100

			battery.SetPercentage(battery.CurrentPercentage - drainPct)
			battery.LastUpdated = recordedAt
			activeTrip.BatteryConsumedPct += drainPct

			if err := tx.SaveBattery(battery); err != nil {
				return err
			}
		}

		return tx.SaveTrip(activeTrip)
	})
	if err != nil {
		return nil, err
	}

	// Побочные эффекты после фиксации транзакции: кэш координат,
	// живой трекинг, метрики
	if cacheErr := s.cache.Set(ctx, vehicleID, CachedLocation{
		Latitude:   lat,
		Longitude:  lng,
		RecordedAt: recordedAt,
	}); cacheErr != nil {
		log.Printf("Не удалось обновить кэш координат машины %d: %v", vehicleID, cacheErr)
	}

	snapshot := batterySnapshot(battery)

	if activeTrip != nil {
		websocket.NotifyTripLocation(websocket.TripLocationPayload{
			TripID:     activeTrip.ID,
			VehicleID:  vehicleID,
			Latitude:   lat,
			Longitude:  lng,
			Battery:    snapshot.Percentage,
			RecordedAt: recordedAt,
		})
	}
	middleware.TrackTelemetryPoint(activeTrip != nil, snapshot.LowBatteryAlert)

	return snapshot, nil
}

// SimulateNext вычисляет следующую демо-точку от последней известной
// позиции машины и записывает ее как обычную телеметрию
func (s *TelemetryService) SimulateNext(ctx context.Context, vehicleID uint, speedKmh, directionDeg float64) (*models.BatterySnapshot, float64, float64, error) {
	point, err := s.store.LatestTrackingPoint(vehicleID)
	if err != nil {
		return nil, 0, 0, err
	}
	if point == nil {
		return nil, 0, 0, ErrNoTrackingHistory
	}

	lat, lng := SimulateNextLocation(point.Latitude, point.Longitude, speedKmh, directionDeg)
	snapshot, err := s.RecordLocation(ctx, vehicleID, lat, lng)
	if err != nil {
		return nil, 0, 0, err
	}
	return snapshot, lat, lng, nil
}
