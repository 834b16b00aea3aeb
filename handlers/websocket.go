package handlers

import (
	"log"
	"net/http"

	httpHandler "telemetry-server/handlers/http"
	"telemetry-server/usecases"
	"telemetry-server/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// FeedHandler groups dependencies for the live reading feed.
type FeedHandler struct {
	mgr  *ws.Manager
	auth *usecases.AuthUseCase
}

func NewFeedHandler(mgr *ws.Manager, auth *usecases.AuthUseCase) *FeedHandler {
	return &FeedHandler{mgr: mgr, auth: auth}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// HandleFeedWS upgrades to websocket and streams reading-created events for
// the authenticated owner's sensors. The bearer token comes from the
// Authorization header, or from ?token= for browser websocket clients that
// cannot set headers.
// GET /ws
func (h *FeedHandler) HandleFeedWS(c *gin.Context) {
	key := httpHandler.BearerToken(c.GetHeader("Authorization"))
	if key == "" {
		key = c.Query("token")
	}

	ownerID, err := h.auth.Authenticate(key)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	h.mgr.Register(ownerID, conn)
	log.Printf("feed connected for owner %s", ownerID)

	defer func() {
		h.mgr.Unregister(ownerID, conn)
		log.Printf("feed disconnected for owner %s", ownerID)
	}()

	// The feed is one-directional; drain until the client goes away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("feed read error for owner %s: %v", ownerID, err)
			}
			return
		}
	}
}
