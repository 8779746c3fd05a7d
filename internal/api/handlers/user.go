package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/askwiki/askwiki/internal/api"
	"github.com/askwiki/askwiki/internal/domain"
)

// UserService defines the user operations the handler needs.
type UserService interface {
	UpsertUser(ctx context.Context, userID, name string) error
}

// UserHandler handles user registration requests.
type UserHandler struct {
	service UserService
}

func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

type createUserRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

type createUserResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// Create registers a user, replacing the stored name if the user exists.
// POST /users/
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UserID == "" {
		api.HandleError(w, domain.ErrMissingUserID)
		return
	}

	if err := h.service.UpsertUser(r.Context(), req.UserID, req.Name); err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, createUserResponse{
		Message: "User created successfully",
		UserID:  req.UserID,
	})
}
