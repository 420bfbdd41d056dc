package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pariskandee/real-estate/internal/adapter/http/middleware"
	listingusecase "github.com/pariskandee/real-estate/internal/listing/usecase"
	"github.com/pariskandee/real-estate/internal/platform/logger"
	userusecase "github.com/pariskandee/real-estate/internal/user/usecase"
)

// UserHandler serves the /api/users surface.
type UserHandler struct {
	users  *userusecase.UserUsecase
	query  *listingusecase.QueryUsecase
	logger *logger.Logger
}

func NewUserHandler(users *userusecase.UserUsecase, query *listingusecase.QueryUsecase, log *logger.Logger) *UserHandler {
	return &UserHandler{users: users, query: query, logger: log.Named("http.user")}
}

// Me handles GET /api/users/me: the caller's resolved profile.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := h.users.GetProfile(ctx, middleware.CallerID(ctx), middleware.CallerEmail(ctx))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Properties handles GET /api/users/{id}/properties: the listings a user
// has submitted, pending ones included for the owner and admins.
func (h *UserHandler) Properties(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := chi.URLParam(r, "id")

	listings, err := h.query.ByOwner(ctx, ownerID, middleware.CallerID(ctx), middleware.IsAdmin(ctx))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

// List handles GET /api/users (admin): the full user directory.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// SetRole handles PATCH /api/users/{id}/role (admin).
func (h *UserHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.users.SetRole(r.Context(), chi.URLParam(r, "id"), body.Role); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "User role updated successfully")
}
