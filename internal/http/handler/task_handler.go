package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/julesapp/crm-api/internal/domain"
	"github.com/julesapp/crm-api/internal/service"
	"go.uber.org/zap"
)

type TaskHandler struct {
	taskService *service.TaskService
	logger      *zap.Logger
}

func NewTaskHandler(taskService *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// List godoc
// @Summary List tasks
// @Tags Tasks
// @Produce json
// @Param filter query string false "Completion filter" Enums(all, completed, pending)
// @Success 200 {array} domain.TaskDTO
// @Security BearerAuth
// @Router /tasks [get]
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.List(r.Context(), service.ParseTaskFilter(r.URL.Query().Get("filter")))
	if err != nil {
		respondServiceError(w, h.logger, err, "list tasks")
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

// GetByID godoc
// @Summary Get task
// @Tags Tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} domain.TaskDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	task, err := h.taskService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.logger, err, "get task")
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// Create godoc
// @Summary Create task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param request body domain.TaskRequest true "Task data"
// @Success 201 {object} domain.TaskDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /tasks [post]
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.TaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create task")
		return
	}

	w.Header().Set("Location", "/api/v1/tasks/"+task.ID)
	respondJSON(w, http.StatusCreated, task)
}

// Update godoc
// @Summary Update task
// @Description Overwrites title, description, due date and completion. The assignment is kept.
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body domain.TaskRequest true "Task data"
// @Success 200 {object} domain.TaskDTO
// @Security BearerAuth
// @Router /tasks/{id} [put]
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.TaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update task")
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// Toggle godoc
// @Summary Flip a task between completed and pending
// @Tags Tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} domain.TaskDTO
// @Security BearerAuth
// @Router /tasks/{id}/toggle [post]
func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	task, err := h.taskService.Toggle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.logger, err, "toggle task")
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// Assign godoc
// @Summary Delegate a task
// @Description Assigns the task to an existing client or to a new contact, which is saved as a client.
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body domain.AssignTaskRequest true "Assignee"
// @Success 200 {object} domain.TaskDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /tasks/{id}/assign [post]
func (h *TaskHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req domain.AssignTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.Assign(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "assign task")
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// SendAssignment godoc
// @Summary Prepare the delegation message
// @Description Returns a mailto or wa.me link with the message prefilled and marks the assignment sent.
// @Tags Tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} domain.AssignmentLinkDTO
// @Failure 409 {object} domain.APIError "Task not assigned"
// @Security BearerAuth
// @Router /tasks/{id}/send [post]
func (h *TaskHandler) SendAssignment(w http.ResponseWriter, r *http.Request) {
	link, err := h.taskService.SendAssignment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.logger, err, "send task assignment")
		return
	}
	respondJSON(w, http.StatusOK, link)
}

// Delete godoc
// @Summary Delete task
// @Tags Tasks
// @Param id path string true "Task ID"
// @Param confirm query bool true "Confirm the deletion"
// @Success 204 "No Content"
// @Failure 428 {object} domain.APIError
// @Security BearerAuth
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.taskService.Delete(r.Context(), chi.URLParam(r, "id"), confirmed(r)); err != nil {
		respondServiceError(w, h.logger, err, "delete task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
