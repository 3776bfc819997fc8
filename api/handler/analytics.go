package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskhive/backend/pkg/httpcontext"
	analyticsUC "github.com/taskhive/backend/usecase/analytics"
)

type AnalyticsHandler struct {
	baseHandler
	uc *analyticsUC.UseCase
}

func NewAnalyticsHandler(uc *analyticsUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Task counts and completion rate
// @Tags analytics
// @Router /api/v1/analytics/overview [get]
func (h *AnalyticsHandler) Overview(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	overview, err := h.uc.Overview(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, overview)
}

// @Summary Creation and completion trends
// @Tags analytics
// @Router /api/v1/analytics/trends [get]
func (h *AnalyticsHandler) Trends(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	period := string(ctx.QueryArgs().Peek("period"))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	trends, err := h.uc.Trends(stdCtx, userID, period)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, trends)
}
