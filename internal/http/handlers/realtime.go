package handlers

import (
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
	"github.com/yungbote/neurobridge-dashboard/internal/realtime"
)

type RealtimeHandler struct {
	Log *logger.Logger
	Hub *realtime.SSEHub

	mu      sync.Mutex
	clients map[string]*realtime.SSEClient // key: session
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &RealtimeHandler{
		Log:     log.With("handler", "RealtimeHandler"),
		Hub:     hub,
		clients: make(map[string]*realtime.SSEClient),
	}
}

// SSEStream streams reorder outcomes for the caller's session. A second stream for
// the same session replaces the first.
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	rd, ok := caller(c)
	if !ok {
		return
	}
	session := sessionOf(rd)
	h.Log.Info("SSEStream open", "user_id", rd.UserID, "session_id", session)

	h.mu.Lock()
	if existing, ok := h.clients[session]; ok {
		h.Hub.CloseClient(existing)
		delete(h.clients, session)
	}
	client := h.Hub.NewSSEClient(rd.UserID)
	h.clients[session] = client
	h.mu.Unlock()

	h.Hub.AddChannel(client, realtime.SessionChannel(session))
	h.Hub.ServeHTTP(c.Writer, c.Request, client)

	h.mu.Lock()
	if h.clients[session] == client {
		delete(h.clients, session)
	}
	h.mu.Unlock()
	h.Hub.CloseClient(client)
}

// Connected reports whether session currently has an open stream.
func (h *RealtimeHandler) Connected(session string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.clients[session]
	return ok
}

// CloseAll ends every open stream.
func (h *RealtimeHandler) CloseAll() {
	h.mu.Lock()
	clients := make([]*realtime.SSEClient, 0, len(h.clients))
	for session, c := range h.clients {
		clients = append(clients, c)
		delete(h.clients, session)
	}
	h.mu.Unlock()
	for _, c := range clients {
		h.Hub.CloseClient(c)
	}
}
