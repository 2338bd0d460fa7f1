package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// CachedLocation последняя известная точка машины в кэше
type CachedLocation struct {
	Latitude   float64   `json:"lat"`
	Longitude  float64   `json:"lng"`
	RecordedAt time.Time `json:"recorded_at"`
}

// LocationCache кэш последних координат машин в Redis. Кэш только
// ускоряет поиск ближайшей машины: при недоступном Redis все запросы
// уходят в базу, источником истины остается она.
type LocationCache struct {
	redisClient *redis.Client
	ttl         time.Duration
	enabled     bool
}

// NewLocationCache создает кэш; nil клиент выключает кэширование
func NewLocationCache(client *redis.Client) *LocationCache {
	if client == nil {
		return &LocationCache{enabled: false}
	}

	ttl := 3600 // 1 час по умолчанию
	if raw := os.Getenv("LOCATION_CACHE_TTL"); raw != "" {
		if val, err := strconv.Atoi(raw); err == nil && val > 0 {
			ttl = val
		}
	}

	return &LocationCache{
		redisClient: client,
		ttl:         time.Duration(ttl) * time.Second,
		enabled:     true,
	}
}

func locationKey(vehicleID uint) string {
	return fmt.Sprintf("vehicle:%d:last_location", vehicleID)
}

// Set сохраняет последнюю точку машины в кэш
func (c *LocationCache) Set(ctx context.Context, vehicleID uint, loc CachedLocation) error {
	if !c.enabled {
		return nil
	}

	data, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("ошибка при сериализации координат для кэша: %w", err)
	}

	if err := c.redisClient.Set(ctx, locationKey(vehicleID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("ошибка при сохранении координат в кэш: %w", err)
	}

	return nil
}

// Get читает последнюю точку машины; false при промахе или отказе Redis
func (c *LocationCache) Get(ctx context.Context, vehicleID uint) (*CachedLocation, bool) {
	if !c.enabled {
		return nil, false
	}

	val, err := c.redisClient.Get(ctx, locationKey(vehicleID)).Result()
	if err != nil {
		// redis.Nil это промах, остальное трактуем так же: кэш не
		// авторитетен, за данными идем в базу
		return nil, false
	}

	var loc CachedLocation
	if err := json.Unmarshal([]byte(val), &loc); err != nil {
		return nil, false
	}

	return &loc, true
}
