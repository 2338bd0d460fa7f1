package services

import (
	"context"
	"time"

	"campus-ev-backend/internal/models"
)

// VehicleService управляет машинами: создание, атомарные переходы
// статуса и поиск ближайшей свободной машины
type VehicleService struct {
	store Store
	cache *LocationCache
	now   func() time.Time
}

func NewVehicleService(store Store, cache *LocationCache) *VehicleService {
	return &VehicleService{
		store: store,
		cache: cache,
		now:   time.Now,
	}
}

// Create создает машину вместе с записью о батарее в одной транзакции
func (s *VehicleService) Create(userID uint, name, licensePlate, model string, capacityKwh float64) (*models.Vehicle, error) {
	if capacityKwh == 0 {
		capacityKwh = DefaultBatteryCapacityKwh
	}
	if err := models.ValidateBatteryCapacity(capacityKwh); err != nil {
		return nil, err
	}

	vehicle := &models.Vehicle{
		UserID:             userID,
		Name:               name,
		LicensePlate:       licensePlate,
		Model:              model,
		BatteryCapacityKwh: capacityKwh,
		Status:             models.VehicleStatusAvailable,
	}

	err := s.store.Transaction(func(tx Store) error {
		if err := tx.CreateVehicle(vehicle); err != nil {
			return err
		}
		battery := &models.BatteryStatus{
			VehicleID:         vehicle.ID,
			CurrentPercentage: 100.0,
		}
		return tx.CreateBattery(battery)
	})
	if err != nil {
		return nil, err
	}

	return vehicle, nil
}

// TryStartTrip атомарно переводит машину в busy под эксклюзивной
// блокировкой строки. Из конкурентных вызовов для одной машины
// успешным будет ровно один. Вызывается только внутри транзакции.
func (s *VehicleService) TryStartTrip(tx Store, vehicleID uint) (*models.Vehicle, error) {
	vehicle, err := tx.VehicleForUpdate(vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, ErrVehicleNotFound
	}

	if vehicle.Status == models.VehicleStatusBusy {
		return nil, ErrVehicleUnavailable
	}

	// Защитная проверка: машина помечена свободной, но активная поездка
	// в базе осталась
	existing, err := tx.ActiveTripByVehicle(vehicleID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateActiveTrip
	}

	vehicle.Status = models.VehicleStatusBusy
	if err := tx.SaveVehicle(vehicle); err != nil {
		return nil, err
	}

	return vehicle, nil
}

// Release возвращает машину в статус available. Идемпотентен: повторный
// вызов для уже свободной машины ничего не меняет.
func (s *VehicleService) Release(tx Store, vehicleID uint) error {
	vehicle, err := tx.VehicleByID(vehicleID)
	if err != nil {
		return err
	}
	if vehicle == nil {
		return nil
	}

	vehicle.Status = models.VehicleStatusAvailable
	return tx.SaveVehicle(vehicle)
}

// NearestAvailable линейный перебор свободных машин по последней
// записанной точке каждой. Машины без единой точки исключаются.
// При равных расстояниях побеждает меньший id.
func (s *VehicleService) NearestAvailable(ctx context.Context, lat, lng float64) (*models.Vehicle, float64, error) {
	if err := ValidateCoordinate(lat, lng); err != nil {
		return nil, 0, err
	}

	vehicles, err := s.store.AvailableVehicles()
	if err != nil {
		return nil, 0, err
	}

	var nearest *models.Vehicle
	minDistance := 0.0

	for i := range vehicles {
		vehicle := &vehicles[i]

		pointLat, pointLng, ok := s.lastKnownLocation(ctx, vehicle.ID)
		if !ok {
			continue
		}

		distance, err := DistanceKm(lat, lng, pointLat, pointLng)
		if err != nil {
			continue
		}

		// Строгое сравнение: при равном расстоянии остается машина
		// с меньшим id, список отсортирован по id
		if nearest == nil || distance < minDistance {
			nearest = vehicle
			minDistance = distance
		}
	}

	if nearest == nil {
		return nil, 0, ErrNoVehiclesAvailable
	}

	return nearest, minDistance, nil
}

// lastKnownLocation последняя точка машины: сначала кэш, потом база
func (s *VehicleService) lastKnownLocation(ctx context.Context, vehicleID uint) (float64, float64, bool) {
	if loc, ok := s.cache.Get(ctx, vehicleID); ok {
		return loc.Latitude, loc.Longitude, true
	}

	point, err := s.store.LatestTrackingPoint(vehicleID)
	if err != nil || point == nil {
		return 0, 0, false
	}
	return point.Latitude, point.Longitude, true
}

// BatterySnapshot текущее состояние батареи машины
func (s *VehicleService) BatterySnapshot(vehicleID uint) (*models.BatterySnapshot, error) {
	vehicle, err := s.store.VehicleByID(vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, ErrVehicleNotFound
	}

	battery, err := s.store.BatteryByVehicle(vehicleID)
	if err != nil {
		return nil, err
	}

	return batterySnapshot(battery), nil
}

// batterySnapshot публичное представление батареи; без записи о батарее
// отдаем полный заряд, как делает живой трекинг
func batterySnapshot(battery *models.BatteryStatus) *models.BatterySnapshot {
	if battery == nil {
		return &models.BatterySnapshot{Percentage: 100.0, LowBatteryAlert: false}
	}
	return &models.BatterySnapshot{
		Percentage:      battery.CurrentPercentage,
		LowBatteryAlert: battery.CurrentPercentage < LowBatteryThreshold,
	}
}
