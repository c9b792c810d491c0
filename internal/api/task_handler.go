package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/phrazzld/taskhub-api/internal/api/middleware"
	"github.com/phrazzld/taskhub-api/internal/api/shared"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/events"
	"github.com/phrazzld/taskhub-api/internal/platform/logger"
	"github.com/phrazzld/taskhub-api/internal/store"
)

// TaskHandler handles the task service's HTTP requests.
// All routes run behind the strict auth gate, so handlers can assume a
// verified identity is present in the request context.
type TaskHandler struct {
	taskStore store.TaskStore
	emitter   events.EventEmitter
	validator *validator.Validate
	logger    *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(
	taskStore store.TaskStore,
	emitter events.EventEmitter,
	log *slog.Logger,
) *TaskHandler {
	if log == nil {
		log = slog.Default()
	}

	return &TaskHandler{
		taskStore: taskStore,
		emitter:   emitter,
		validator: validator.New(),
		logger:    log.With(slog.String("component", "task_handler")),
	}
}

// List handles GET / requests. It returns every task owned by the caller,
// in no guaranteed order.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization required")
		return
	}

	tasks, err := h.taskStore.ListByOwner(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, taskToResponse(task))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// Create handles POST / requests.
//
// The TASK_CREATED event is emitted only after the store commit, through an
// emitter whose dispatch never blocks and never fails this request: the 201
// goes back to the caller regardless of the sink's fate.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	claims, ok := middleware.GetClaims(r)
	if !ok || claims.UserID == uuid.Nil {
		log.Warn("claims not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization required")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Title is required")
		return
	}

	task, err := domain.NewTask(claims.UserID, req.Title, req.Description)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task data: "+err.Error())
		return
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.emitTaskCreated(r, task, claims.Email)

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// emitTaskCreated fires the TASK_CREATED event. Emission failures are logged
// and swallowed here; they must never surface to the create caller.
func (h *TaskHandler) emitTaskCreated(r *http.Request, task *domain.Task, email string) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	event, err := events.NewEvent(events.TypeTaskCreated, events.TaskCreatedPayload{
		TaskID: task.ID,
		Title:  task.Title,
		UserID: task.OwnerID,
		Email:  email,
	})
	if err != nil {
		log.Warn("failed to build task created event", "error", err, "task_id", task.ID)
		return
	}

	if err := h.emitter.EmitEvent(r.Context(), event); err != nil {
		log.Warn("failed to emit task created event", "error", err, "task_id", task.ID)
	}
}

// Update handles PUT /{id} requests.
//
// Fields absent from the request are left unchanged. An explicitly empty
// title is rejected rather than ignored: silently treating "" as no-change
// masks caller bugs, and the non-empty title invariant stays visible.
// An explicitly empty description clears it.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization required")
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		// An unparseable ID cannot name any existing task.
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	patch := store.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
	}

	if req.Title != nil && *req.Title == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Title cannot be empty")
		return
	}

	if req.Status != nil {
		status, err := domain.ParseTaskStatus(*req.Status)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid status")
			return
		}
		patch.Status = &status
	}

	task, err := h.taskStore.Update(r.Context(), userID, taskID, patch)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Delete handles DELETE /{id} requests.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization required")
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	if err := h.taskStore.Delete(r.Context(), userID, taskID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
