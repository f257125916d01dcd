package httpapi

import (
	"net/http"

	"time-tracker-gateway/internal/domain"
)

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	profile, err := h.services.Auth.Login(r.Context(), req.Name, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*domain.Profile{"profile": profile})
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.services.Tasks.ListTasks(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Task{"tasks": tasks})
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	task, err := h.services.Tasks.CreateTask(r.Context(), userID(r), req.Title, req.Description)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*domain.Task{"task": task})
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	var patch domain.TaskPatch
	if err := h.decodeJSON(w, r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}

	task, err := h.services.Tasks.UpdateTask(r.Context(), userID(r), taskID(r), patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*domain.Task{"task": task})
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.services.Tasks.DeleteTask(r.Context(), userID(r), taskID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*domain.TaskRef{"deleted": deleted})
}

func (h *Handler) startTimer(w http.ResponseWriter, r *http.Request) {
	log, err := h.services.Time.StartTimer(r.Context(), userID(r), taskID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*domain.TimeLog{"time_log": log})
}

func (h *Handler) stopTimer(w http.ResponseWriter, r *http.Request) {
	result, err := h.services.Time.StopTimer(r.Context(), userID(r), taskID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*domain.MutationResult{"result": result})
}
