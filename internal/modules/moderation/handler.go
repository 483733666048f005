package moderation

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/lensfeed/core/internal/pkg/response"
	"github.com/lensfeed/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
)

const retrainTaskType = "model_retrain"

// Handler exposes the model lifecycle over HTTP. Retraining is out-of-band:
// the request only enqueues a task and returns its id; the swap happens in a
// background worker.
type Handler struct {
	engine *Engine
	tasks  *taskqueue.Service
	logger *zap.Logger
}

func NewHandler(engine *Engine, tasks *taskqueue.Service, logger *zap.Logger) *Handler {
	return &Handler{engine: engine, tasks: tasks, logger: logger.Named("ModerationHandler")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/moderation")
	g.GET("/model", h.modelInfo)
	g.POST("/retrain", h.retrain)

	rg.GET("/tasks", h.listTasks)
	rg.GET("/tasks/:id", h.getTask)
}

func (h *Handler) modelInfo(c *gin.Context) {
	info := h.engine.Info()
	if info == nil {
		response.ServiceUnavailable(c, "no model artifact loaded")
		return
	}
	response.OK(c, info)
}

func (h *Handler) retrain(c *gin.Context) {
	// Dedup key keeps at most one retrain in flight; a second request gets
	// the running task back instead of queueing another.
	task, err := h.tasks.Enqueue(c.Request.Context(), retrainTaskType, nil, "retrain")
	if err != nil {
		response.InternalError(c, err)
		return
	}

	if task.Status == taskqueue.TaskPending {
		go h.runRetrain(task.ID)
	}
	response.Created(c, task)
}

func (h *Handler) runRetrain(taskID string) {
	ctx := context.Background()
	if err := h.tasks.UpdateStatus(ctx, taskID, taskqueue.TaskRunning, nil, ""); err != nil {
		h.logger.Warn("mark retrain task running", zap.Error(err))
	}

	info, err := h.engine.Retrain(ctx)
	if err != nil {
		h.logger.Error("retrain failed", zap.Error(err))
		_ = h.tasks.UpdateStatus(ctx, taskID, taskqueue.TaskFailed, nil, err.Error())
		return
	}
	_ = h.tasks.UpdateStatus(ctx, taskID, taskqueue.TaskCompleted, info, "")
}

func (h *Handler) listTasks(c *gin.Context) {
	tasks, err := h.tasks.List(c.Request.Context(), 50)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, tasks)
}

func (h *Handler) getTask(c *gin.Context) {
	task, err := h.tasks.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if task == nil {
		response.NotFoundMsg(c, "task not found")
		return
	}
	response.OK(c, task)
}
