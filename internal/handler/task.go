package handler

import (
	"net/http"
	"strings"

	"github.com/kongden/taskboard/internal/service"
	"github.com/kongden/taskboard/internal/validation"
)

type taskHandler struct {
	boardService *service.BoardService
}

func NewTaskHandler(boardService *service.BoardService) *taskHandler {
	return &taskHandler{boardService: boardService}
}

func (h *taskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	boardID := r.PathValue("boardId")
	listID := r.PathValue("listId")

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)

	details := map[string]string{}
	if err := validation.ValidateTitle(req.Title); err != nil {
		details["title"] = err.Error()
	}
	if err := validation.ValidateDescription(req.Description); err != nil {
		details["description"] = err.Error()
	}
	if len(details) > 0 {
		respondValidationError(w, details)
		return
	}

	task, err := h.boardService.CreateTask(boardID, listID, user.ID, req.Title, req.Description)
	if err != nil {
		if !respondOwnershipError(w, err) {
			respondInternalError(w, "failed to create task", err)
		}
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

func (h *taskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	boardID := r.PathValue("boardId")
	taskID := r.PathValue("taskId")

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)

	details := map[string]string{}
	if req.Title != "" {
		if err := validation.ValidateTitle(req.Title); err != nil {
			details["title"] = err.Error()
		}
	}
	if err := validation.ValidateDescription(req.Description); err != nil {
		details["description"] = err.Error()
	}
	if len(details) > 0 {
		respondValidationError(w, details)
		return
	}

	task, err := h.boardService.UpdateTask(boardID, taskID, user.ID, req.Title, req.Description)
	if err != nil {
		if !respondOwnershipError(w, err) {
			respondInternalError(w, "failed to update task", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, task)
}

func (h *taskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	boardID := r.PathValue("boardId")
	taskID := r.PathValue("taskId")

	err := h.boardService.DeleteTask(boardID, taskID, user.ID)
	if err != nil {
		if !respondOwnershipError(w, err) {
			respondInternalError(w, "failed to delete task", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}
