package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lofoneh/usersvc/internal/api/types"
	"github.com/lofoneh/usersvc/internal/api/validators"
	"github.com/lofoneh/usersvc/internal/services"
)

const msgUserNotFound = "user not found"

type UsersHandler struct {
	svc services.UserService
}

func NewUsersHandler(svc services.UserService) *UsersHandler {
	return &UsersHandler{svc: svc}
}

func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validators.New().Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, validators.Message(err))
		return
	}

	u, err := h.svc.CreateUser(r.Context(), &services.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	u, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	var req types.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validators.New().Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, validators.Message(err))
		return
	}

	u, err := h.svc.UpdateUser(r.Context(), id, &services.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	u, err := h.svc.DeleteUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.DeletedResponse{Deleted: u})
}

// userID parses the {id} route parameter. Anything that is not a
// non-negative integer within the SERIAL (int4) range addresses no user.
func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 32)
	if err != nil || id < 0 {
		writeErrorStr(w, http.StatusNotFound, msgUserNotFound)
		return 0, false
	}
	return id, true
}
