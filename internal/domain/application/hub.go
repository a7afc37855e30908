package application

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 64
)

// FeedEvent is the message pushed to timeline subscribers.
type FeedEvent struct {
	Type          string         `json:"type"`
	ApplicationID string         `json:"application_id"`
	Event         *TimelineEvent `json:"event"`
}

const EventTimelineAppended = "timeline_event"

// Publisher receives committed timeline events.
type Publisher interface {
	Publish(applicationID string, ev *TimelineEvent)
}

type subscriber struct {
	applicationID string
	conn          *websocket.Conn
	send          chan []byte
}

// Hub fans committed timeline events out to WebSocket clients, keyed by
// application id.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*subscriber]struct{}
	upgrader    websocket.Upgrader
	logger      *slog.Logger
}

// NewHub accepts upgrades from the given origins. "*" allows any origin;
// requests without an Origin header (non-browser clients) are always allowed.
func NewHub(allowedOrigins []string, logger *slog.Logger) *Hub {
	h := &Hub{
		subscribers: make(map[string]map[*subscriber]struct{}),
		logger:      logger,
	}

	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed["*"] || allowed[origin]
		},
	}
	return h
}

func (h *Hub) register(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.subscribers[s.applicationID]
	if !ok {
		subs = make(map[*subscriber]struct{})
		h.subscribers[s.applicationID] = subs
	}
	subs[s] = struct{}{}
}

func (h *Hub) unregister(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.subscribers[s.applicationID]
	if !ok {
		return
	}
	if _, ok := subs[s]; !ok {
		return
	}
	delete(subs, s)
	close(s.send)
	if len(subs) == 0 {
		delete(h.subscribers, s.applicationID)
	}
}

// Subscribers returns the number of live connections for an application.
func (h *Hub) Subscribers(applicationID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[applicationID])
}

// Publish never blocks: slow clients miss the message.
func (h *Hub) Publish(applicationID string, ev *TimelineEvent) {
	data, err := json.Marshal(&FeedEvent{
		Type:          EventTimelineAppended,
		ApplicationID: applicationID,
		Event:         ev,
	})
	if err != nil {
		h.logger.Error("marshal feed event", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subscribers[applicationID] {
		select {
		case s.send <- data:
		default:
			h.logger.Warn("dropping feed event for slow client", "application_id", applicationID)
		}
	}
}

// Serve upgrades the request and streams events until the client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, applicationID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	s := &subscriber{
		applicationID: applicationID,
		conn:          conn,
		send:          make(chan []byte, sendBuffer),
	}
	h.register(s)

	go h.writePump(s)
	h.readPump(s)
	return nil
}

// readPump only services control frames; clients have nothing to say.
func (h *Hub) readPump(s *subscriber) {
	defer func() {
		h.unregister(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMsgSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(s *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
