package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskhive/backend/pkg/httpcontext"
	notificationUC "github.com/taskhive/backend/usecase/notification"
)

type NotificationHandler struct {
	baseHandler
	uc *notificationUC.UseCase
}

func NewNotificationHandler(uc *notificationUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List the newest notifications
// @Tags notifications
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) List(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	notifications, err := h.uc.List(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, notifications)
}

// @Summary Mark one notification read
// @Tags notifications
// @Router /api/v1/notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing notification id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	notification, err := h.uc.MarkRead(stdCtx, id, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, notification)
}

// @Summary Mark every notification read
// @Tags notifications
// @Router /api/v1/notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.MarkAllRead(stdCtx, userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"message": "all notifications marked as read"})
}
