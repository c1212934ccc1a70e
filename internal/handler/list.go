package handler

import (
	"net/http"
	"strings"

	"github.com/kongden/taskboard/internal/service"
	"github.com/kongden/taskboard/internal/validation"
)

type listHandler struct {
	boardService *service.BoardService
}

func NewListHandler(boardService *service.BoardService) *listHandler {
	return &listHandler{boardService: boardService}
}

func (h *listHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	boardID := r.PathValue("boardId")

	var req struct {
		Title string `json:"title"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if err := validation.ValidateTitle(req.Title); err != nil {
		respondValidationError(w, map[string]string{"title": err.Error()})
		return
	}

	list, err := h.boardService.CreateList(boardID, user.ID, req.Title)
	if err != nil {
		if !respondOwnershipError(w, err) {
			respondInternalError(w, "failed to create list", err)
		}
		return
	}

	respondJSON(w, http.StatusCreated, list)
}

func (h *listHandler) Rename(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	boardID := r.PathValue("boardId")
	listID := r.PathValue("listId")

	var req struct {
		Title string `json:"title"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if err := validation.ValidateTitle(req.Title); err != nil {
		respondValidationError(w, map[string]string{"title": err.Error()})
		return
	}

	list, err := h.boardService.RenameList(boardID, listID, user.ID, req.Title)
	if err != nil {
		if !respondOwnershipError(w, err) {
			respondInternalError(w, "failed to rename list", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, list)
}

// Reorder persists a full ordering of the board's lists
func (h *listHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	boardID := r.PathValue("boardId")

	var req []struct {
		ID string `json:"id"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ids := make([]string, 0, len(req))
	for _, item := range req {
		if item.ID == "" {
			respondValidationError(w, map[string]string{"id": "list id is required"})
			return
		}
		ids = append(ids, item.ID)
	}

	err = h.boardService.ReorderLists(boardID, user.ID, ids)
	if err != nil {
		if !respondOwnershipError(w, err) {
			respondInternalError(w, "failed to reorder lists", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *listHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	boardID := r.PathValue("boardId")
	listID := r.PathValue("listId")

	err := h.boardService.DeleteList(boardID, listID, user.ID)
	if err != nil {
		if !respondOwnershipError(w, err) {
			respondInternalError(w, "failed to delete list", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}
