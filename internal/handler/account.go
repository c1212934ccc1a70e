package handler

import (
	"net/http"
)

type accountHandler struct{}

func NewAccountHandler() *accountHandler {
	return &accountHandler{}
}

// Me returns the authenticated user behind the current session
func (h *accountHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, user)
}
