package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-ev-backend/internal/models"
)

func newTelemetryEnv(t *testing.T) (*memStore, *TelemetryService, *fakeClock) {
	t.Helper()
	store := newMemStore()
	clock := newFakeClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	svc := NewTelemetryService(store, NewLocationCache(nil))
	svc.now = clock.Now
	return store, svc, clock
}

func seedVehicle(t *testing.T, store *memStore, capacityKwh, batteryPct float64) *models.Vehicle {
	t.Helper()
	vehicle := &models.Vehicle{
		UserID:             1,
		Name:               "Кампусный шаттл",
		LicensePlate:       "KZ001",
		Model:              "Nissan Leaf",
		BatteryCapacityKwh: capacityKwh,
		Status:             models.VehicleStatusAvailable,
	}
	require.NoError(t, store.CreateVehicle(vehicle))
	require.NoError(t, store.CreateBattery(&models.BatteryStatus{
		VehicleID:         vehicle.ID,
		CurrentPercentage: batteryPct,
	}))
	return vehicle
}

func seedActiveTrip(t *testing.T, store *memStore, vehicleID uint, startedAt time.Time) *models.Trip {
	t.Helper()
	trip := &models.Trip{
		VehicleID:           vehicleID,
		SourceCampusID:      1,
		DestinationCampusID: 2,
		StartTime:           startedAt,
		Status:              models.TripStatusActive,
	}
	require.NoError(t, store.CreateTrip(trip))

	vehicle, err := store.VehicleByID(vehicleID)
	require.NoError(t, err)
	vehicle.Status = models.VehicleStatusBusy
	require.NoError(t, store.SaveVehicle(vehicle))

	return trip
}

func TestRecordLocationUnknownVehicle(t *testing.T) {
	_, svc, _ := newTelemetryEnv(t)

	_, err := svc.RecordLocation(context.Background(), 42, 0, 0)
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}

func TestRecordLocationInvalidCoordinate(t *testing.T) {
	store, svc, _ := newTelemetryEnv(t)
	vehicle := seedVehicle(t, store, 75, 100)

	_, err := svc.RecordLocation(context.Background(), vehicle.ID, 91, 0)
	assert.ErrorIs(t, err, ErrInvalidCoordinate)
	assert.Empty(t, store.points)
}

func TestRecordLocationWithoutTrip(t *testing.T) {
	store, svc, clock := newTelemetryEnv(t)
	vehicle := seedVehicle(t, store, 75, 100)

	snapshot, err := svc.RecordLocation(context.Background(), vehicle.ID, 0, 0)
	require.NoError(t, err)

	clock.Advance(10 * time.Second)
	snapshot, err = svc.RecordLocation(context.Background(), vehicle.ID, 0, 0.01)
	require.NoError(t, err)

	// Вне поездки заряд не тратится
	assert.InDelta(t, 100.0, snapshot.Percentage, 1e-9)
	assert.False(t, snapshot.LowBatteryAlert)

	require.Len(t, store.points, 2)
	for _, point := range store.points {
		assert.Nil(t, point.TripID)
	}

	battery, err := store.BatteryByVehicle(vehicle.ID)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, battery.CurrentPercentage, 1e-9)
}

func TestRecordLocationAccumulatesActiveTrip(t *testing.T) {
	store, svc, clock := newTelemetryEnv(t)
	vehicle := seedVehicle(t, store, 75, 100)
	trip := seedActiveTrip(t, store, vehicle.ID, clock.Now())

	coords := [][2]float64{{0, 0}, {0, 0.01}, {0, 0.02}}
	for i, c := range coords {
		if i > 0 {
			clock.Advance(10 * time.Second)
		}
		_, err := svc.RecordLocation(context.Background(), vehicle.ID, c[0], c[1])
		require.NoError(t, err)
	}

	saved, err := store.ActiveTripByVehicle(vehicle.ID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, trip.ID, saved.ID)

	// Два сегмента по ~1.11 км, расход 0.20 кВт·ч/км при емкости 75
	assert.InDelta(t, 2.22, saved.TotalDistanceKm, 0.03)
	assert.InDelta(t, 0.59, saved.BatteryConsumedPct, 0.02)

	battery, err := store.BatteryByVehicle(vehicle.ID)
	require.NoError(t, err)
	assert.InDelta(t, 100.0-saved.BatteryConsumedPct, battery.CurrentPercentage, 0.01)

	require.Len(t, store.points, 3)
	for _, point := range store.points {
		require.NotNil(t, point.TripID)
		assert.Equal(t, trip.ID, *point.TripID)
	}
}

func TestRecordLocationDefaultCapacity(t *testing.T) {
	store, svc, clock := newTelemetryEnv(t)
	vehicle := seedVehicle(t, store, 0, 100) // емкость не задана
	seedActiveTrip(t, store, vehicle.ID, clock.Now())

	_, err := svc.RecordLocation(context.Background(), vehicle.ID, 0, 0)
	require.NoError(t, err)
	clock.Advance(10 * time.Second)
	_, err = svc.RecordLocation(context.Background(), vehicle.ID, 0, 0.01)
	require.NoError(t, err)

	// Без емкости расход считается от стандартных 75 кВт·ч
	saved, err := store.ActiveTripByVehicle(vehicle.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.30, saved.BatteryConsumedPct, 0.02)
}

func TestRecordLocationLowBatteryAlert(t *testing.T) {
	store, svc, _ := newTelemetryEnv(t)
	vehicle := seedVehicle(t, store, 75, 19)

	snapshot, err := svc.RecordLocation(context.Background(), vehicle.ID, 0, 0)
	require.NoError(t, err)

	assert.InDelta(t, 19.0, snapshot.Percentage, 1e-9)
	assert.True(t, snapshot.LowBatteryAlert)
}

func TestRecordLocationClampsBatteryAtZero(t *testing.T) {
	store, svc, clock := newTelemetryEnv(t)
	vehicle := seedVehicle(t, store, 75, 0.05)
	seedActiveTrip(t, store, vehicle.ID, clock.Now())

	_, err := svc.RecordLocation(context.Background(), vehicle.ID, 0, 0)
	require.NoError(t, err)
	clock.Advance(10 * time.Second)

	// Скачок на ~157 км тратит больше, чем осталось
	snapshot, err := svc.RecordLocation(context.Background(), vehicle.ID, 1, 1)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, snapshot.Percentage, 1e-9)
	assert.True(t, snapshot.LowBatteryAlert)

	battery, err := store.BatteryByVehicle(vehicle.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, battery.CurrentPercentage, 1e-9)
}

func TestSimulateNextWithoutHistory(t *testing.T) {
	store, svc, _ := newTelemetryEnv(t)
	vehicle := seedVehicle(t, store, 75, 100)

	_, _, _, err := svc.SimulateNext(context.Background(), vehicle.ID, 60, 0)
	assert.ErrorIs(t, err, ErrNoTrackingHistory)
}

func TestSimulateNextAdvancesFromLastPoint(t *testing.T) {
	store, svc, clock := newTelemetryEnv(t)
	vehicle := seedVehicle(t, store, 75, 100)

	_, err := svc.RecordLocation(context.Background(), vehicle.ID, 43.2, 76.9)
	require.NoError(t, err)
	clock.Advance(10 * time.Second)

	_, lat, lng, err := svc.SimulateNext(context.Background(), vehicle.ID, 60, 0)
	require.NoError(t, err)

	assert.Greater(t, lat, 43.2)
	assert.InDelta(t, 76.9, lng, 1e-9)
	assert.Len(t, store.points, 2)
}
