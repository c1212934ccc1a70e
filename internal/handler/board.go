package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/kongden/taskboard/internal/ctxkeys"
	"github.com/kongden/taskboard/internal/model"
	"github.com/kongden/taskboard/internal/service"
	"github.com/kongden/taskboard/internal/validation"
)

type boardHandler struct {
	boardService *service.BoardService
}

func NewBoardHandler(boardService *service.BoardService) *boardHandler {
	return &boardHandler{boardService: boardService}
}

// requireUser returns the authenticated user or writes a 401. The session
// claims resolved by the auth middleware are the sole authority for the
// user id in every ownership check below.
func requireUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	user := ctxkeys.User(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	return user, true
}

// respondOwnershipError maps ownership guard failures onto the API.
// Absence beats ownership: a nonexistent resource is always 404, never 403.
func respondOwnershipError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, service.ErrBoardNotFound):
		respondError(w, http.StatusNotFound, "Board not found")
	case errors.Is(err, service.ErrListNotFound):
		respondError(w, http.StatusNotFound, "List not found")
	case errors.Is(err, service.ErrTaskNotFound):
		respondError(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, service.ErrForbidden):
		respondError(w, http.StatusForbidden, "Forbidden: You do not own this board")
	default:
		return false
	}
	return true
}

func (h *boardHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	boards, err := h.boardService.Boards(user.ID)
	if err != nil {
		respondInternalError(w, "failed to list boards", err)
		return
	}

	respondJSON(w, http.StatusOK, boards)
}

func (h *boardHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Title           string `json:"title"`
		Description     string `json:"description"`
		BackgroundColor string `json:"backgroundColor"`
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

	board, err := h.boardService.Create(user.ID, req.Title, req.Description, req.BackgroundColor)
	if err != nil {
		respondInternalError(w, "failed to create board", err)
		return
	}

	respondJSON(w, http.StatusCreated, board)
}

func (h *boardHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	boardID := r.PathValue("boardId")

	board, lists, err := h.boardService.BoardWithLists(boardID, user.ID)
	if err != nil {
		if !respondOwnershipError(w, err) {
			respondInternalError(w, "failed to get board", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"id":              board.ID,
		"ownerId":         board.OwnerID,
		"title":           board.Title,
		"description":     board.Description,
		"backgroundColor": board.BackgroundColor,
		"createdAt":       board.CreatedAt,
		"updatedAt":       board.UpdatedAt,
		"lists":           lists,
	})
}

func (h *boardHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	boardID := r.PathValue("boardId")

	var req struct {
		Title           string `json:"title"`
		Description     string `json:"description"`
		BackgroundColor string `json:"backgroundColor"`
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

	board, err := h.boardService.Update(boardID, user.ID, req.Title, req.Description, req.BackgroundColor)
	if err != nil {
		if !respondOwnershipError(w, err) {
			respondInternalError(w, "failed to update board", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, board)
}

func (h *boardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	boardID := r.PathValue("boardId")

	err := h.boardService.Delete(boardID, user.ID)
	if err != nil {
		if !respondOwnershipError(w, err) {
			respondInternalError(w, "failed to delete board", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}
