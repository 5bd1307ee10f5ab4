package realtime

import (
	"net/http"
	"strings"
	"time"

	"habitTracker/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	readLimit  = 4 * 1024
	pongWait   = 90 * time.Second
	pingPeriod = 60 * time.Second
)

// newUpgrader сверяет Origin со списком разрешённых источников. Пустой список оставляет
// проверку gorilla по умолчанию (тот же хост); запрос без Origin пропускается.
func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if len(allowedOrigins) == 0 {
		return upgrader
	}

	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			upgrader.CheckOrigin = func(*http.Request) bool { return true }
			return upgrader
		}
		allowed[normalizeOrigin(origin)] = struct{}{}
	}

	upgrader.CheckOrigin = func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[normalizeOrigin(origin)]
		if !ok {
			logger.Warn("Realtime: Источник не разрешён", zap.String("origin", origin))
		}
		return ok
	}
	return upgrader
}

func normalizeOrigin(origin string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(origin), "/"))
}

// Serve переводит запрос в websocket и держит соединение, пока клиент его не закроет.
// Входящие сообщения клиента игнорируются.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, owner uuid.UUID) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := h.Register(owner, conn)
	defer h.Unregister(client)

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go keepAlive(conn, client.done)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Error("Realtime: Соединение оборвано", err)
			}
			return nil
		}
	}
}

func keepAlive(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}
}
