package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/codecrew/backend/internal/config"
	"github.com/codecrew/backend/internal/middleware"
	"github.com/codecrew/backend/internal/models"
	"github.com/codecrew/backend/internal/realtime"
	"github.com/codecrew/backend/internal/services"
	"github.com/codecrew/backend/internal/utils"
	"github.com/codecrew/backend/pkg/logger"
	"github.com/codecrew/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The browser client runs on a separate origin; the token in the
	// query string is the actual access control.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type ChatHandler struct {
	chatService *services.ChatService
	hub         *realtime.Hub
	pub         realtime.Publisher
	cfg         *config.ChatConfig
}

func NewChatHandler(db *gorm.DB, cfg *config.ChatConfig, hub *realtime.Hub, pub realtime.Publisher) *ChatHandler {
	return &ChatHandler{
		chatService: services.NewChatService(db, cfg.MaxMessageLen),
		hub:         hub,
		pub:         pub,
		cfg:         cfg,
	}
}

// History returns the recent chat messages of a beacon, oldest first
// GET /api/beacons/:id/chat/messages
func (h *ChatHandler) History(c *gin.Context) {
	beaconID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid beacon id")
		return
	}

	userID := middleware.GetUserID(c)
	ok, err := h.chatService.IsMember(uint(beaconID), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !ok {
		response.Forbidden(c, "chat is restricted to beacon members")
		return
	}

	messages, err := h.chatService.History(uint(beaconID), h.cfg.HistoryLimit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, messages)
}

// inboundFrame is what a connected client sends over the socket.
type inboundFrame struct {
	Content string `json:"content"`
}

// outboundFrame is what the server pushes for each room message.
type outboundFrame struct {
	Type    string             `json:"type"`
	Message models.ChatMessage `json:"message"`
}

// Connect upgrades to a websocket and joins the beacon's chat room.
// Browsers cannot set headers on websocket requests, so the access
// token arrives as a query parameter instead.
// GET /api/beacons/:id/chat/ws?token=...
func (h *ChatHandler) Connect(c *gin.Context) {
	beaconID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid beacon id")
		return
	}

	claims, err := utils.ParseToken(c.Query("token"))
	if err != nil {
		response.Unauthorized(c, "invalid or expired token")
		return
	}

	ok, err := h.chatService.IsMember(uint(beaconID), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !ok {
		response.Forbidden(c, "chat is restricted to beacon members")
		return
	}

	seed, err := h.chatService.History(uint(beaconID), h.cfg.HistoryLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn().Err(err).Uint("user_id", claims.UserID).Msg("websocket upgrade failed")
		return
	}

	session := realtime.NewSession(h.chatService, h.hub, h.pub, claims.UserID, uint(beaconID))
	outbound := make(chan models.ChatMessage, h.cfg.ClientBuffer)
	session.OnMessage = func(msg models.ChatMessage, _ []models.ChatMessage) {
		select {
		case outbound <- msg:
		default:
			// slow client, drop rather than stall the room
		}
	}
	session.Connect(services.RoomName(uint(beaconID)), seed)

	go h.writePump(conn, outbound)
	h.readPump(c, conn, session)
}

// readPump consumes client frames until the socket closes, then tears
// the session down. Runs on the handler goroutine.
func (h *ChatHandler) readPump(c *gin.Context, conn *websocket.Conn, session *realtime.Session) {
	defer func() {
		session.Disconnect()
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug().Err(err).Msg("websocket closed unexpectedly")
			}
			return
		}
		if err := session.Send(c.Request.Context(), frame.Content); err != nil {
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "message not saved"),
				time.Now().Add(writeWait))
			return
		}
	}
}

// writePump pushes room messages and pings to the client.
func (h *ChatHandler) writePump(conn *websocket.Conn, outbound <-chan models.ChatMessage) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-outbound:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(outboundFrame{Type: "message", Message: msg}); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
