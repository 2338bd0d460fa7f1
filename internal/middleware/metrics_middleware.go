package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal - общее количество запросов
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Общее количество HTTP запросов",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration - длительность запросов
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Длительность HTTP запросов в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// RequestsInFlight - количество запросов в обработке
	RequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Текущее количество запросов в обработке",
		},
	)

	// TelemetryPointsTotal - общее количество принятых точек телеметрии
	TelemetryPointsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_points_total",
			Help: "Общее количество принятых GPS-точек",
		},
		[]string{"has_trip"},
	)

	// TripsStartedTotal - количество начатых поездок
	TripsStartedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trips_started_total",
			Help: "Общее количество начатых поездок",
		},
	)

	// TripsCompletedTotal - количество завершенных поездок по рейтингу
	TripsCompletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trips_completed_total",
			Help: "Общее количество завершенных поездок",
		},
		[]string{"rating"},
	)

	// LowBatteryAlertsTotal - количество предупреждений о низком заряде
	LowBatteryAlertsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "low_battery_alerts_total",
			Help: "Количество ответов с предупреждением о низком заряде",
		},
	)
)

// PrometheusMiddleware собирает метрики для HTTP запросов
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Увеличиваем счетчик запросов в обработке
		RequestsInFlight.Inc()
		defer RequestsInFlight.Dec()

		// Фиксируем время начала запроса
		start := time.Now()

		// Обрабатываем запрос
		c.Next()

		// Вычисляем длительность запроса
		duration := time.Since(start).Seconds()

		// Получаем статус код и эндпоинт
		status := strconv.Itoa(c.Writer.Status())
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}

		// Увеличиваем счетчик запросов
		RequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()

		// Добавляем длительность запроса
		RequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(duration)
	}
}

// TrackTelemetryPoint отслеживает принятую точку телеметрии
func TrackTelemetryPoint(hasTrip bool, lowBattery bool) {
	TelemetryPointsTotal.WithLabelValues(strconv.FormatBool(hasTrip)).Inc()
	if lowBattery {
		LowBatteryAlertsTotal.Inc()
	}
}

// TrackTripStarted отслеживает начало поездки
func TrackTripStarted() {
	TripsStartedTotal.Inc()
}

// TrackTripCompleted отслеживает завершение поездки
func TrackTripCompleted(rating string) {
	TripsCompletedTotal.WithLabelValues(rating).Inc()
}
