package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskhive/backend/api/transport"
	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/pkg/httpcontext"
	"github.com/taskhive/backend/repository"
	taskUC "github.com/taskhive/backend/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List visible tasks
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListTasks(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary List tasks shared with the caller
// @Tags tasks
// @Router /api/v1/tasks/shared [get]
func (h *TaskHandler) GetSharedTasks(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListSharedTasks(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Fetch one task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.taskID(ctx)
	if id == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.GetTask(stdCtx, id, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.TaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	task := &domain.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.Status(req.Status),
		DueDate:     parseDueDate(req.DueDate),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateTask(stdCtx, userID, task)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Partially update task
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.taskID(ctx)
	if id == "" {
		return
	}

	var req transport.TaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	patch := repository.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.Status(req.Status),
		DueDate:     parseDueDate(req.DueDate),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateTask(stdCtx, id, userID, patch)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.taskID(ctx)
	if id == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTask(stdCtx, id, userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"message": "task removed"})
}

// @Summary Share task with other users
// @Tags tasks
// @Router /api/v1/tasks/{id}/share [put]
func (h *TaskHandler) ShareTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.taskID(ctx)
	if id == "" {
		return
	}

	var req transport.ShareRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.ShareTask(stdCtx, id, userID, req.UserIDs)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Upload a task attachment
// @Tags tasks
// @Router /api/v1/tasks/{id}/attachments [post]
func (h *TaskHandler) UploadAttachment(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.taskID(ctx)
	if id == "" {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		h.respondInvalid(ctx, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.AttachFile(stdCtx, id, userID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, updated)
}

// @Summary Download an attachment
// @Tags tasks
// @Router /api/v1/attachments/{id} [get]
func (h *TaskHandler) DownloadAttachment(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing attachment id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	meta, data, err := h.uc.Attachment(stdCtx, id, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.Response.Header.SetContentType(meta.Mimetype)
	ctx.Response.Header.Set("Content-Disposition", `attachment; filename="`+meta.OriginalName+`"`)
	ctx.SetStatusCode(http.StatusOK)
	ctx.SetBody(data)
}

func (h *TaskHandler) taskID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing task id")
	}
	return id
}

func parseDueDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return &parsed
	}
	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		return &parsed
	}
	return nil
}
