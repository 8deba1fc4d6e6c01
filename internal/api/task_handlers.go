package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/CyrilRPG/diploma/internal/api/presenter"
	"github.com/CyrilRPG/diploma/internal/tasks"
)

type TriggerTaskResponse struct {
	Status string `json:"status"`
}

// handleListTasks lists the registered background tasks and their status.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	presenter.JSON(w, r, s.taskManager.ListStatus(), http.StatusOK)
}

// handleTriggerTask runs a background task out of schedule.
func (s *Server) handleTriggerTask(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if err := s.taskManager.Trigger(name); err != nil {
		var notFound tasks.TaskNotFoundError
		if errors.As(err, &notFound) {
			presenter.Error(w, r, err.Error(), http.StatusNotFound)
			return
		}
		log.Ctx(r.Context()).Error().Err(err).Str("task", name).Msg("failed to trigger task")
		presenter.Error(w, r, "failed to trigger task", http.StatusInternalServerError)
		return
	}

	presenter.JSON(w, r, TriggerTaskResponse{Status: "triggered"}, http.StatusOK)
}

// handleTaskLogs returns the stored output of a task's last run.
func (s *Server) handleTaskLogs(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	logs, err := s.taskManager.GetLogs(name)
	if err != nil {
		var notFound tasks.TaskNotFoundError
		if errors.As(err, &notFound) {
			presenter.Error(w, r, err.Error(), http.StatusNotFound)
			return
		}
		log.Ctx(r.Context()).Error().Err(err).Str("task", name).Msg("failed to get task logs")
		presenter.Error(w, r, "failed to get task logs", http.StatusInternalServerError)
		return
	}

	presenter.JSON(w, r, logs, http.StatusOK)
}
