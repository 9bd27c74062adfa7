package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sportify-app/apiserver/internal/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// UserRouter registers the profile routes on r.
func UserRouter(r chi.Router, users *services.UserService) {
	handler := NewUserHandler(users)

	r.Get("/", handler.ListUsers)
	r.Get("/{userID}", handler.GetUser)
	r.Put("/{userID}", handler.UpdateUser)
}

// UpdateUserRequest is a partial profile. Absent fields are left as is.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Sport    *string `json:"sport"`
	Level    *string `json:"level"`
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, r, err, "list users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err, "get user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Update(r.Context(), id, services.UpdateInput{
		Username: req.Username,
		Email:    req.Email,
		Sport:    req.Sport,
		Level:    req.Level,
	})
	if err != nil {
		respondError(w, r, err, "update user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
