package services

import (
	"errors"

	"campus-ev-backend/internal/models"

	"gorm.io/gorm"
)

// Store доступ сервисов к хранилищу. Методы-поиски возвращают (nil, nil),
// когда записи нет; ошибка означает отказ самого хранилища.
type Store interface {
	// Transaction выполняет fn атомарно: либо все изменения внутри fn
	// фиксируются, либо при ошибке откатываются целиком
	Transaction(fn func(tx Store) error) error

	VehicleByID(id uint) (*models.Vehicle, error)
	// VehicleForUpdate берет эксклюзивную блокировку строки машины,
	// вызывается только внутри Transaction
	VehicleForUpdate(id uint) (*models.Vehicle, error)
	CreateVehicle(v *models.Vehicle) error
	SaveVehicle(v *models.Vehicle) error
	AvailableVehicles() ([]models.Vehicle, error)

	BatteryByVehicle(vehicleID uint) (*models.BatteryStatus, error)
	CreateBattery(b *models.BatteryStatus) error
	SaveBattery(b *models.BatteryStatus) error

	CreateTrackingPoint(p *models.TrackingPoint) error
	SaveTrackingPoint(p *models.TrackingPoint) error
	PreviousTrackingPoint(vehicleID uint) (*models.TrackingPoint, error)
	LatestTrackingPoint(vehicleID uint) (*models.TrackingPoint, error)
	PointsByTrip(tripID uint) ([]models.TrackingPoint, error)

	ActiveTripByVehicle(vehicleID uint) (*models.Trip, error)
	CreateTrip(t *models.Trip) error
	SaveTrip(t *models.Trip) error
	TripsByVehicle(vehicleID uint) ([]models.Trip, error)
	CompletedTripsByUser(userID uint) ([]models.Trip, error)

	CampusByID(id uint) (*models.Campus, error)
}

// GormStore реализация Store поверх gorm
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Transaction(fn func(tx Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) VehicleByID(id uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := s.db.First(&vehicle, id).Error; err != nil {
		return nil, ignoreNotFound(err)
	}
	return &vehicle, nil
}

func (s *GormStore) VehicleForUpdate(id uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := s.db.Set("gorm:query_option", "FOR UPDATE").First(&vehicle, id).Error; err != nil {
		return nil, ignoreNotFound(err)
	}
	return &vehicle, nil
}

func (s *GormStore) CreateVehicle(v *models.Vehicle) error {
	return s.db.Create(v).Error
}

func (s *GormStore) SaveVehicle(v *models.Vehicle) error {
	return s.db.Save(v).Error
}

func (s *GormStore) AvailableVehicles() ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	// Порядок по id дает детерминированный выбор при равных расстояниях
	err := s.db.Where("status = ?", models.VehicleStatusAvailable).
		Order("id").
		Find(&vehicles).Error
	return vehicles, err
}

func (s *GormStore) BatteryByVehicle(vehicleID uint) (*models.BatteryStatus, error) {
	var battery models.BatteryStatus
	if err := s.db.Where("vehicle_id = ?", vehicleID).First(&battery).Error; err != nil {
		return nil, ignoreNotFound(err)
	}
	return &battery, nil
}

func (s *GormStore) CreateBattery(b *models.BatteryStatus) error {
	return s.db.Create(b).Error
}

func (s *GormStore) SaveBattery(b *models.BatteryStatus) error {
	return s.db.Save(b).Error
}

func (s *GormStore) CreateTrackingPoint(p *models.TrackingPoint) error {
	return s.db.Create(p).Error
}

func (s *GormStore) SaveTrackingPoint(p *models.TrackingPoint) error {
	return s.db.Save(p).Error
}

// PreviousTrackingPoint точка, предшествующая последней вставленной.
// Сортировка по id, а не по recorded_at: порядок вставки стабилен при
// сбоях часов. Финализация поездки при этом идет по recorded_at, под
// перекосом часов суммы могут разойтись (известное расхождение).
func (s *GormStore) PreviousTrackingPoint(vehicleID uint) (*models.TrackingPoint, error) {
	var point models.TrackingPoint
	err := s.db.Where("vehicle_id = ?", vehicleID).
		Order("id DESC").
		Offset(1).
		First(&point).Error
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	return &point, nil
}

func (s *GormStore) LatestTrackingPoint(vehicleID uint) (*models.TrackingPoint, error) {
	var point models.TrackingPoint
	err := s.db.Where("vehicle_id = ?", vehicleID).
		Order("recorded_at DESC").
		First(&point).Error
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	return &point, nil
}

func (s *GormStore) PointsByTrip(tripID uint) ([]models.TrackingPoint, error) {
	var points []models.TrackingPoint
	err := s.db.Where("trip_id = ?", tripID).
		Order("recorded_at").
		Find(&points).Error
	return points, err
}

func (s *GormStore) ActiveTripByVehicle(vehicleID uint) (*models.Trip, error) {
	var trip models.Trip
	err := s.db.Where("vehicle_id = ? AND status = ?", vehicleID, models.TripStatusActive).
		First(&trip).Error
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	return &trip, nil
}

func (s *GormStore) CreateTrip(t *models.Trip) error {
	return s.db.Create(t).Error
}

func (s *GormStore) SaveTrip(t *models.Trip) error {
	return s.db.Save(t).Error
}

func (s *GormStore) TripsByVehicle(vehicleID uint) ([]models.Trip, error) {
	var trips []models.Trip
	err := s.db.Where("vehicle_id = ?", vehicleID).
		Order("start_time DESC").
		Find(&trips).Error
	return trips, err
}

func (s *GormStore) CompletedTripsByUser(userID uint) ([]models.Trip, error) {
	var trips []models.Trip
	err := s.db.Joins("JOIN vehicles ON vehicles.id = trips.vehicle_id").
		Where("vehicles.user_id = ? AND trips.status = ?", userID, models.TripStatusCompleted).
		Order("trips.start_time").
		Find(&trips).Error
	return trips, err
}

func (s *GormStore) CampusByID(id uint) (*models.Campus, error) {
	var campus models.Campus
	if err := s.db.First(&campus, id).Error; err != nil {
		return nil, ignoreNotFound(err)
	}
	return &campus, nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
