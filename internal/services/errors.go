package services

import "errors"

// Ошибки ядра. Обработчики сопоставляют их с HTTP статусами через errors.Is;
// ядро само ничего не ретраит.
var (
	ErrVehicleNotFound     = errors.New("vehicle not found")
	ErrCampusNotFound      = errors.New("campus not found")
	ErrVehicleUnavailable  = errors.New("vehicle is already on another trip")
	ErrDuplicateActiveTrip = errors.New("trip already active")
	ErrNoActiveTrip        = errors.New("no active trip")
	ErrInvalidCoordinate   = errors.New("invalid coordinate")
	ErrNoVehiclesAvailable = errors.New("no available vehicles nearby")
	ErrNoTrackingHistory   = errors.New("vehicle has no tracking history")
)
