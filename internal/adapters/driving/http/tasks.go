package http

import (
	"net/http"
	"strconv"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driving"
)

// handleListTasks godoc
// @Summary      List conversion tasks
// @Description  List the caller's queued and finished conversions, newest first
// @Tags         Conversion
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status (pending, processing, completed, failed)"
// @Param        limit   query     int     false  "Page size (default 20, max 100)"
// @Param        offset  query     int     false  "Page offset"
// @Success      200     {array}   domain.Task
// @Failure      400     {object}  ErrorResponse  "Invalid filter"
// @Failure      503     {object}  ErrorResponse  "Background conversion disabled"
// @Router       /tasks [get]
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	req := driving.ListTasksRequest{Status: domain.TaskStatus(q.Get("status"))}
	for name, dst := range map[string]*int{"limit": &req.Limit, "offset": &req.Offset} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid "+name)
			return
		}
		*dst = n
	}

	tasks, err := s.taskService.List(r.Context(), uid, req)
	if err != nil {
		s.writeServiceError(w, err, "failed to list tasks")
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// handleGetTask godoc
// @Summary      Get conversion task
// @Description  Poll a queued conversion
// @Tags         Conversion
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  domain.Task
// @Failure      404  {object}  ErrorResponse  "Task not found"
// @Failure      503  {object}  ErrorResponse  "Background conversion disabled"
// @Router       /tasks/{id} [get]
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	task, err := s.taskService.Get(r.Context(), uid, r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err, "failed to get task")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// handleCancelTask godoc
// @Summary      Cancel conversion task
// @Description  Cancel a conversion that no worker has picked up yet
// @Tags         Conversion
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  domain.Task
// @Failure      404  {object}  ErrorResponse  "Task not found"
// @Failure      409  {object}  ErrorResponse  "Task is no longer pending"
// @Failure      503  {object}  ErrorResponse  "Background conversion disabled"
// @Router       /tasks/{id} [delete]
func (s *Server) handleCancelTask(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	task, err := s.taskService.Cancel(r.Context(), uid, r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err, "failed to cancel task")
		return
	}

	writeJSON(w, http.StatusOK, task)
}
