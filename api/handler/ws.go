package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fasthttp/websocket"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskhive/backend/api/transport"
	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/internal/middleware"
	"github.com/taskhive/backend/internal/realtime"
)

// wsEvent is the wire frame for pushed events; Event is always
// "notification".
type wsEvent struct {
	Event string           `json:"event"`
	Data  domain.PushEvent `json:"data"`
}

type WSHandler struct {
	baseHandler
	hub      *realtime.Hub
	secret   string
	sessions middleware.SessionValidator
	upgrader websocket.FastHTTPUpgrader
}

func NewWSHandler(hub *realtime.Hub, secret string, sessions middleware.SessionValidator, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		baseHandler: newBaseHandler(nil, logger),
		hub:         hub,
		secret:      secret,
		sessions:    sessions,
		upgrader: websocket.FastHTTPUpgrader{
			CheckOrigin: func(ctx *fasthttp.RequestCtx) bool { return true },
		},
	}
}

// Serve authenticates the connection, joins it to the caller's room,
// and streams pushed events until the client goes away. The token
// travels as a query parameter because browsers cannot set headers on
// websocket upgrades; the session check mirrors the REST middleware so
// logout revokes the realtime channel too.
func (h *WSHandler) Serve(ctx *fasthttp.RequestCtx) {
	token := string(ctx.QueryArgs().Peek("token"))
	claims, err := middleware.ParseToken(token, h.secret)
	if err != nil {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "invalid token", nil))
		return
	}
	if h.sessions != nil && !h.sessions.ValidateSession(ctx, claims.SessionID) {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "session revoked", nil))
		return
	}

	err = h.upgrader.Upgrade(ctx, func(conn *websocket.Conn) {
		client := h.hub.Register(claims.UserID)
		defer h.hub.Unregister(client)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case event, ok := <-client.Send:
				if !ok {
					return
				}
				frame, err := json.Marshal(wsEvent{Event: "notification", Data: event})
				if err != nil {
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	})
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
	}
}
