package websocket

import (
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Константы для типов сообщений WebSocket
const (
	TripLocationUpdateType = "TRIP_LOCATION_UPDATE"
	TripCompletedType      = "TRIP_COMPLETED"
)

// WebSocketMessage представляет формат сообщения WebSocket
type WebSocketMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// TripLocationPayload точка активной поездки для подписчиков
type TripLocationPayload struct {
	TripID     uint      `json:"trip_id"`
	VehicleID  uint      `json:"vehicle_id"`
	Latitude   float64   `json:"lat"`
	Longitude  float64   `json:"lng"`
	Battery    float64   `json:"battery"`
	RecordedAt time.Time `json:"recorded_at"`
}

// WebSocketManager управляет подписками на активные поездки
type WebSocketManager struct {
	clientsByTrip map[uint]map[*websocket.Conn]bool
	register      chan *WebSocketClient
	unregister    chan *WebSocketClient
	mutex         sync.RWMutex
}

// WebSocketClient представляет клиентское соединение WebSocket
type WebSocketClient struct {
	conn     *websocket.Conn
	tripID   uint
	clientID string
}

// Глобальный менеджер WebSocket
var wsManager = NewWebSocketManager()

// Настройка для обновления WebSocket
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Разрешаем подключения с любых источников
	},
}

// NewWebSocketManager создает новый менеджер WebSocket
func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clientsByTrip: make(map[uint]map[*websocket.Conn]bool),
		register:      make(chan *WebSocketClient),
		unregister:    make(chan *WebSocketClient),
	}
}

// Start запускает обработку подписок WebSocket
func (manager *WebSocketManager) Start() {
	log.Printf("Запуск WebSocket Manager")
	go func() {
		for {
			select {
			case client := <-manager.register:
				manager.mutex.Lock()
				if _, ok := manager.clientsByTrip[client.tripID]; !ok {
					manager.clientsByTrip[client.tripID] = make(map[*websocket.Conn]bool)
				}
				manager.clientsByTrip[client.tripID][client.conn] = true
				manager.mutex.Unlock()
				log.Printf("Клиент %s подписан на поездку %d", client.clientID, client.tripID)

			case client := <-manager.unregister:
				manager.mutex.Lock()
				if conns, ok := manager.clientsByTrip[client.tripID]; ok {
					if _, exists := conns[client.conn]; exists {
						delete(conns, client.conn)
						client.conn.Close()
					}
					if len(conns) == 0 {
						delete(manager.clientsByTrip, client.tripID)
					}
				}
				manager.mutex.Unlock()
				log.Printf("Клиент %s отписан от поездки %d", client.clientID, client.tripID)
			}
		}
	}()
}

// SendToTrip отправляет сообщение всем подписчикам поездки
func (manager *WebSocketManager) SendToTrip(tripID uint, message WebSocketMessage) {
	manager.mutex.RLock()
	defer manager.mutex.RUnlock()

	for conn := range manager.clientsByTrip[tripID] {
		if err := conn.WriteJSON(message); err != nil {
			log.Printf("Ошибка отправки сообщения подписчику поездки %d: %v", tripID, err)
		}
	}
}

// StartManager запускает глобальный менеджер WebSocket
func StartManager() {
	wsManager.Start()
}

// NotifyTripLocation рассылает новую точку подписчикам активной поездки
func NotifyTripLocation(payload TripLocationPayload) {
	wsManager.SendToTrip(payload.TripID, WebSocketMessage{
		Type:    TripLocationUpdateType,
		Payload: payload,
	})
}

// NotifyTripCompleted уведомляет подписчиков о завершении поездки
func NotifyTripCompleted(tripID uint, summary interface{}) {
	wsManager.SendToTrip(tripID, WebSocketMessage{
		Type:    TripCompletedType,
		Payload: summary,
	})
}

// Handler обрабатывает подключение WebSocket для живого трекинга поездки
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		tripID, err := strconv.ParseUint(c.Query("trip_id"), 10, 32)
		if err != nil || tripID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Не указан trip_id"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("Ошибка обновления соединения до WebSocket: %v", err)
			return
		}

		client := &WebSocketClient{
			conn:     conn,
			tripID:   uint(tripID),
			clientID: uuid.New().String(),
		}
		wsManager.register <- client

		// Читаем соединение до закрытия, входящие сообщения игнорируем
		go func() {
			defer func() {
				wsManager.unregister <- client
			}()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}
