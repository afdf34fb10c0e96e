package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/leaseledger/leaseledger-backend/internal/pkg/ctxutil"
	"github.com/leaseledger/leaseledger-backend/internal/pkg/logger"
	"github.com/leaseledger/leaseledger-backend/internal/realtime"
)

type RealtimeHandler struct {
	Log *logger.Logger
	Hub *realtime.SSEHub

	mu      sync.RWMutex
	clients map[string]*realtime.SSEClient // key: access token
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{
		Log:     log.With("handler", "RealtimeHandler"),
		Hub:     hub,
		clients: make(map[string]*realtime.SSEClient),
	}
}

func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	userID := rd.UserID
	sessionKey := rd.TokenString
	h.Log.Info("SSEStream open", "user_id", userID.String())

	h.mu.Lock()
	// One stream per session: close and replace an existing client.
	if existing, ok := h.clients[sessionKey]; ok {
		h.Hub.CloseClient(existing)
		delete(h.clients, sessionKey)
	}
	client := h.Hub.NewSSEClient(userID)
	h.clients[sessionKey] = client
	h.mu.Unlock()

	// Every stream is subscribed to the user's own channel; agreement
	// channels are opt-in via SSESubscribe.
	h.Hub.AddChannel(client, realtime.UserChannel(userID))

	h.Hub.ServeHTTP(c.Writer, c.Request, client)

	h.mu.Lock()
	// A reconnect may have replaced this client already; only remove the
	// entry when it is still ours.
	if h.clients[sessionKey] == client {
		delete(h.clients, sessionKey)
	}
	h.mu.Unlock()
	h.Hub.CloseClient(client)
}

func (h *RealtimeHandler) SSESubscribe(c *gin.Context) {
	client, req, ok := h.resolveClient(c)
	if !ok {
		return
	}
	h.Hub.AddChannel(client, req.Channel)
	c.JSON(http.StatusOK, gin.H{"message": "subscribed", "channel": req.Channel})
}

func (h *RealtimeHandler) SSEUnsubscribe(c *gin.Context) {
	client, req, ok := h.resolveClient(c)
	if !ok {
		return
	}
	h.Hub.RemoveChannel(client, req.Channel)
	c.JSON(http.StatusOK, gin.H{"message": "unsubscribed", "channel": req.Channel})
}

type channelRequest struct {
	Channel string `json:"channel"`
}

func (h *RealtimeHandler) resolveClient(c *gin.Context) (*realtime.SSEClient, channelRequest, bool) {
	var req channelRequest

	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return nil, req, false
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Channel == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid channel"})
		return nil, req, false
	}

	h.mu.RLock()
	client, exists := h.clients[rd.TokenString]
	h.mu.RUnlock()
	if !exists {
		c.JSON(http.StatusConflict, gin.H{"error": "no active SSE connection for this session"})
		return nil, req, false
	}
	return client, req, true
}
