package services

import (
	"sort"
	"sync"
	"time"

	"campus-ev-backend/internal/models"
)

// memStore хранилище в памяти для тестов сервисов. Транзакции
// выполняются под общим мьютексом: это эмулирует эксклюзивную
// блокировку строки машины, как FOR UPDATE в Postgres.
type memStore struct {
	mu sync.Mutex

	vehicles  map[uint]*models.Vehicle
	batteries map[uint]*models.BatteryStatus
	trips     map[uint]*models.Trip
	campuses  map[uint]*models.Campus
	points    []*models.TrackingPoint

	nextVehicleID uint
	nextBatteryID uint
	nextTripID    uint
	nextPointID   uint
}

func newMemStore() *memStore {
	return &memStore{
		vehicles:  make(map[uint]*models.Vehicle),
		batteries: make(map[uint]*models.BatteryStatus),
		trips:     make(map[uint]*models.Trip),
		campuses:  make(map[uint]*models.Campus),
	}
}

func (m *memStore) Transaction(fn func(tx Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m)
}

func (m *memStore) VehicleByID(id uint) (*models.Vehicle, error) {
	if v, ok := m.vehicles[id]; ok {
		copied := *v
		return &copied, nil
	}
	return nil, nil
}

func (m *memStore) VehicleForUpdate(id uint) (*models.Vehicle, error) {
	return m.VehicleByID(id)
}

func (m *memStore) CreateVehicle(v *models.Vehicle) error {
	m.nextVehicleID++
	v.ID = m.nextVehicleID
	copied := *v
	m.vehicles[v.ID] = &copied
	return nil
}

func (m *memStore) SaveVehicle(v *models.Vehicle) error {
	copied := *v
	m.vehicles[v.ID] = &copied
	return nil
}

func (m *memStore) AvailableVehicles() ([]models.Vehicle, error) {
	ids := make([]uint, 0, len(m.vehicles))
	for id, v := range m.vehicles {
		if v.Status == models.VehicleStatusAvailable {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]models.Vehicle, 0, len(ids))
	for _, id := range ids {
		out = append(out, *m.vehicles[id])
	}
	return out, nil
}

func (m *memStore) BatteryByVehicle(vehicleID uint) (*models.BatteryStatus, error) {
	if b, ok := m.batteries[vehicleID]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, nil
}

func (m *memStore) CreateBattery(b *models.BatteryStatus) error {
	m.nextBatteryID++
	b.ID = m.nextBatteryID
	copied := *b
	m.batteries[b.VehicleID] = &copied
	return nil
}

func (m *memStore) SaveBattery(b *models.BatteryStatus) error {
	copied := *b
	m.batteries[b.VehicleID] = &copied
	return nil
}

func (m *memStore) CreateTrackingPoint(p *models.TrackingPoint) error {
	m.nextPointID++
	p.ID = m.nextPointID
	copied := *p
	m.points = append(m.points, &copied)
	return nil
}

func (m *memStore) SaveTrackingPoint(p *models.TrackingPoint) error {
	for i := range m.points {
		if m.points[i].ID == p.ID {
			copied := *p
			m.points[i] = &copied
			return nil
		}
	}
	return nil
}

func (m *memStore) PreviousTrackingPoint(vehicleID uint) (*models.TrackingPoint, error) {
	// Точки лежат в порядке вставки: берем вторую с конца для машины
	var matched []*models.TrackingPoint
	for _, p := range m.points {
		if p.VehicleID == vehicleID {
			matched = append(matched, p)
		}
	}
	if len(matched) < 2 {
		return nil, nil
	}
	copied := *matched[len(matched)-2]
	return &copied, nil
}

func (m *memStore) LatestTrackingPoint(vehicleID uint) (*models.TrackingPoint, error) {
	var latest *models.TrackingPoint
	for _, p := range m.points {
		if p.VehicleID != vehicleID {
			continue
		}
		if latest == nil || p.RecordedAt.After(latest.RecordedAt) {
			latest = p
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (m *memStore) PointsByTrip(tripID uint) ([]models.TrackingPoint, error) {
	var out []models.TrackingPoint
	for _, p := range m.points {
		if p.TripID != nil && *p.TripID == tripID {
			out = append(out, *p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecordedAt.Before(out[j].RecordedAt)
	})
	return out, nil
}

func (m *memStore) ActiveTripByVehicle(vehicleID uint) (*models.Trip, error) {
	for _, t := range m.trips {
		if t.VehicleID == vehicleID && t.Status == models.TripStatusActive {
			copied := *t
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateTrip(t *models.Trip) error {
	m.nextTripID++
	t.ID = m.nextTripID
	copied := *t
	m.trips[t.ID] = &copied
	return nil
}

func (m *memStore) SaveTrip(t *models.Trip) error {
	copied := *t
	m.trips[t.ID] = &copied
	return nil
}

func (m *memStore) TripsByVehicle(vehicleID uint) ([]models.Trip, error) {
	var out []models.Trip
	for _, t := range m.trips {
		if t.VehicleID == vehicleID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.After(out[j].StartTime)
	})
	return out, nil
}

func (m *memStore) CompletedTripsByUser(userID uint) ([]models.Trip, error) {
	var out []models.Trip
	for _, t := range m.trips {
		if t.Status != models.TripStatusCompleted {
			continue
		}
		vehicle, ok := m.vehicles[t.VehicleID]
		if !ok || vehicle.UserID != userID {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}

func (m *memStore) CampusByID(id uint) (*models.Campus, error) {
	if c, ok := m.campuses[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

// fakeClock детерминированное время для сервисов в тестах
type fakeClock struct {
	mu      sync.Mutex
	current time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{current: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}
