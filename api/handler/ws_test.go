package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/taskhive/backend/internal/realtime"
)

const wsTestSecret = "ws-test-secret"

type stubSessionValidator struct {
	live    bool
	checked []string
}

func (v *stubSessionValidator) ValidateSession(_ context.Context, sessionID string) bool {
	v.checked = append(v.checked, sessionID)
	return v.live
}

func signedToken(t *testing.T, userID, sessionID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"sid":     sessionID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(wsTestSecret))
	require.NoError(t, err)
	return signed
}

func serveWS(h *WSHandler, token string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/api/v1/ws?token=" + token)
	h.Serve(&ctx)
	return &ctx
}

func TestWSHandlerAuth(t *testing.T) {
	hub := realtime.NewHub(nil)

	t.Run("invalid token rejected", func(t *testing.T) {
		validator := &stubSessionValidator{live: true}
		h := NewWSHandler(hub, wsTestSecret, validator, nil)

		ctx := serveWS(h, "garbage")

		assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
		assert.Empty(t, validator.checked)
	})

	t.Run("revoked session rejected", func(t *testing.T) {
		validator := &stubSessionValidator{live: false}
		h := NewWSHandler(hub, wsTestSecret, validator, nil)

		ctx := serveWS(h, signedToken(t, "alice", "sess-1"))

		assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
		assert.Equal(t, []string{"sess-1"}, validator.checked)
	})

	t.Run("live session passes auth", func(t *testing.T) {
		validator := &stubSessionValidator{live: true}
		h := NewWSHandler(hub, wsTestSecret, validator, nil)

		// No upgrade headers on the request, so the handshake itself
		// fails, but past the auth gate: anything but 401 proves the
		// session check let it through.
		ctx := serveWS(h, signedToken(t, "alice", "sess-1"))

		assert.NotEqual(t, http.StatusUnauthorized, ctx.Response.StatusCode())
		assert.Equal(t, []string{"sess-1"}, validator.checked)
	})
}
