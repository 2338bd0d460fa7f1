package services

import (
	"context"
	"fmt"
	"time"

	"campus-ev-backend/internal/middleware"
	"campus-ev-backend/internal/models"
	"campus-ev-backend/internal/websocket"
)

// TripService оркестрирует жизненный цикл поездки: старт с блокировкой
// машины, назначение ближайшей свободной и финализация со скорингом
type TripService struct {
	store    Store
	vehicles *VehicleService
	now      func() time.Time
}

func NewTripService(store Store, vehicles *VehicleService) *TripService {
	return &TripService{
		store:    store,
		vehicles: vehicles,
		now:      time.Now,
	}
}

// Start начинает поездку: машина переводится в busy под блокировкой
// строки, создается активная поездка. Координаты назначения заносятся
// сразу как заглушки, при финализации их перезапишет последняя
// записанная точка — поездке нужны непустые координаты еще до прихода
// телеметрии.
func (s *TripService) Start(vehicleID, sourceCampusID, destCampusID uint, startLat, startLng, endLat, endLng float64) (*models.Trip, error) {
	if err := ValidateCoordinate(startLat, startLng); err != nil {
		return nil, err
	}
	if err := ValidateCoordinate(endLat, endLng); err != nil {
		return nil, err
	}

	var trip *models.Trip
	err := s.store.Transaction(func(tx Store) error {
		if _, err := s.vehicles.TryStartTrip(tx, vehicleID); err != nil {
			return err
		}

		trip = &models.Trip{
			VehicleID:           vehicleID,
			SourceCampusID:      sourceCampusID,
			DestinationCampusID: destCampusID,
			StartTime:           s.now(),
			StartLat:            startLat,
			StartLongitude:      startLng,
			EndLat:              endLat,
			EndLongitude:        endLng,
			Status:              models.TripStatusActive,
		}
		return tx.CreateTrip(trip)
	})
	if err != nil {
		return nil, err
	}

	middleware.TrackTripStarted()
	return trip, nil
}

// AssignAndStart находит ближайшую свободную машину у кампуса
// отправления и начинает поездку на ней
func (s *TripService) AssignAndStart(ctx context.Context, sourceCampusID, destCampusID uint) (*models.Trip, *models.Vehicle, error) {
	source, err := s.store.CampusByID(sourceCampusID)
	if err != nil {
		return nil, nil, err
	}
	dest, err := s.store.CampusByID(destCampusID)
	if err != nil {
		return nil, nil, err
	}
	if source == nil || dest == nil {
		return nil, nil, ErrCampusNotFound
	}

	vehicle, _, err := s.vehicles.NearestAvailable(ctx, source.Latitude, source.Longitude)
	if err != nil {
		return nil, nil, err
	}

	trip, err := s.Start(vehicle.ID, sourceCampusID, destCampusID,
		source.Latitude, source.Longitude, dest.Latitude, dest.Longitude)
	if err != nil {
		return nil, nil, err
	}
	return trip, vehicle, nil
}

// End завершает активную поездку машины: освобождает машину, полностью
// пересчитывает статистику по всем точкам и переводит поездку в
// терминальный статус. Пересчет авторитетен и перезаписывает суммы,
// накопленные во время поездки.
func (s *TripService) End(vehicleID uint) (*models.TripSummary, error) {
	var trip *models.Trip

	err := s.store.Transaction(func(tx Store) error {
		var err error
		trip, err = tx.ActiveTripByVehicle(vehicleID)
		if err != nil {
			return err
		}
		if trip == nil {
			return ErrNoActiveTrip
		}

		vehicle, err := tx.VehicleByID(vehicleID)
		if err != nil {
			return err
		}

		if err := s.vehicles.Release(tx, vehicleID); err != nil {
			return err
		}

		endTime := s.now()
		trip.EndTime = &endTime
		trip.Status = models.TripStatusCompleted

		points, err := tx.PointsByTrip(trip.ID)
		if err != nil {
			return err
		}

		// Реальное место завершения - последняя записанная точка;
		// без точек остаются координаты старта
		if len(points) > 0 {
			last := points[len(points)-1]
			trip.EndLat = last.Latitude
			trip.EndLongitude = last.Longitude
		} else {
			trip.EndLat = trip.StartLat
			trip.EndLongitude = trip.StartLongitude
		}

		capacity := DefaultBatteryCapacityKwh
		if vehicle != nil && vehicle.BatteryCapacityKwh > 0 {
			capacity = vehicle.BatteryCapacityKwh
		}
		stats := AnalyzeTripPoints(points, capacity)

		trip.TotalDistanceKm = stats.TotalDistanceKm
		trip.BatteryConsumedPct = stats.BatteryConsumedPct
		trip.HarshAccelerationCnt = stats.HarshAccelCount
		trip.HarshBrakingCnt = stats.HarshBrakeCount
		trip.OverspeedCnt = stats.OverspeedCount

		durationHours := endTime.Sub(trip.StartTime).Hours()
		if durationHours > 0 {
			trip.AverageSpeedKmph = round2(stats.TotalDistanceKm / durationHours)
		} else {
			trip.AverageSpeedKmph = 0
		}

		trip.DrivingScore = models.ClampDrivingScore(DrivingScore(stats))
		trip.DriverRating = RatingForScore(trip.DrivingScore)

		return tx.SaveTrip(trip)
	})
	if err != nil {
		return nil, err
	}

	summary := trip.ToSummary()
	websocket.NotifyTripCompleted(trip.ID, summary)
	middleware.TrackTripCompleted(trip.DriverRating)

	return &summary, nil
}

// History поездки машины, новые сверху
func (s *TripService) History(vehicleID uint) ([]models.TripSummary, error) {
	vehicle, err := s.store.VehicleByID(vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, ErrVehicleNotFound
	}

	trips, err := s.store.TripsByVehicle(vehicleID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.TripSummary, 0, len(trips))
	for i := range trips {
		summaries = append(summaries, trips[i].ToSummary())
	}
	return summaries, nil
}

// TripAnalytics данные для графиков по завершенным поездкам пользователя
type TripAnalytics struct {
	Labels    []string             `json:"labels"`
	Distances []float64            `json:"distances"`
	Speeds    []float64            `json:"speeds"`
	Trips     []models.TripSummary `json:"trips"`
}

// Analytics сводка по завершенным поездкам всех машин пользователя в
// хронологическом порядке
func (s *TripService) Analytics(userID uint) (*TripAnalytics, error) {
	trips, err := s.store.CompletedTripsByUser(userID)
	if err != nil {
		return nil, err
	}

	analytics := &TripAnalytics{
		Labels:    make([]string, 0, len(trips)),
		Distances: make([]float64, 0, len(trips)),
		Speeds:    make([]float64, 0, len(trips)),
		Trips:     make([]models.TripSummary, 0, len(trips)),
	}
	for i := range trips {
		analytics.Labels = append(analytics.Labels, fmt.Sprintf("Trip %d", i+1))
		analytics.Distances = append(analytics.Distances, trips[i].TotalDistanceKm)
		analytics.Speeds = append(analytics.Speeds, trips[i].AverageSpeedKmph)
		analytics.Trips = append(analytics.Trips, trips[i].ToSummary())
	}
	return analytics, nil
}
