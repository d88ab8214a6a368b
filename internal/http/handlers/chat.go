package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

// Chat answers one coach question, spending a chat quota unit.
func (a *App) Chat(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.userID(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid user id")
		return
	}
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "message required")
		return
	}

	answer, err := a.Orch.Chat(r.Context(), userID, req.Message)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, chatResponse{Answer: answer})
}
