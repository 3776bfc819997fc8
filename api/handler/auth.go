package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskhive/backend/api/transport"
	"github.com/taskhive/backend/pkg/httpcontext"
	authUC "github.com/taskhive/backend/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc *authUC.UseCase
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Register a new user
// @Tags auth
// @Router /api/v1/users [post]
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	var req transport.RegisterRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, token, err := h.uc.Register(stdCtx, req.Name, req.Email, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, transport.AuthResponse{User: user, Token: token})
}

// @Summary Authenticate with email and password
// @Tags auth
// @Router /api/v1/users/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Email == "" || req.Password == "" {
		h.respondInvalid(ctx, "email and password are required")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, token, err := h.uc.Login(stdCtx, req.Email, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.AuthResponse{User: user, Token: token})
}

// @Summary Revoke the current session
// @Tags auth
// @Router /api/v1/users/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	sessionID := string(ctx.Request.Header.Peek("X-Session-ID"))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Logout(stdCtx, sessionID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"message": "logged out"})
}

// @Summary Get profile
// @Tags profile
// @Router /api/v1/profile [get]
func (h *AuthHandler) GetProfile(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Profile(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, user)
}

// @Summary Update profile
// @Tags profile
// @Router /api/v1/profile [put]
func (h *AuthHandler) UpdateProfile(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.ProfileUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.UpdateProfile(stdCtx, userID, req.Name, req.Email, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, user)
}
