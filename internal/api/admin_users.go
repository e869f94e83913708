package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"riverbend/portal/internal/common"
	"riverbend/portal/internal/constants"
	"riverbend/portal/internal/db/repositories"
	"riverbend/portal/internal/models/dtos"
	"riverbend/portal/internal/services"
)

// ListUsersHandler handles GET /api/admin/users?role=&accountType=&search=&limit=&offset=
func ListUsersHandler(userSvc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		q := r.URL.Query()
		users, err := userSvc.List(r.Context(), repositories.UserFilter{
			Role:        constants.Role(q.Get("role")),
			AccountType: constants.AccountType(q.Get("accountType")),
			Search:      q.Get("search"),
			Page:        pageFromQuery(r),
		})
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Users fetched", users)
	}
}

// GetUserHandler handles GET /api/admin/users/{id}
func GetUserHandler(userSvc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		user, err := userSvc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "User fetched", user)
	}
}

// CreateUserHandler handles POST /api/admin/users
func CreateUserHandler(userSvc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.AdminCreateUserRequest
		if !decodeJSON(w, r, initTime, &req) {
			return
		}

		user, err := userSvc.Create(r.Context(), req)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "User created", user, http.StatusCreated)
	}
}

// UpdateUserHandler handles PUT /api/admin/users/{id}
//
// Admins cannot demote or deactivate themselves.
func UpdateUserHandler(userSvc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.AdminUpdateUserRequest
		if !decodeJSON(w, r, initTime, &req) {
			return
		}

		user, err := userSvc.Update(r.Context(), callerID(r), chi.URLParam(r, "id"), req)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "User updated", user)
	}
}

// DeleteUserHandler handles DELETE /api/admin/users/{id}
func DeleteUserHandler(userSvc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if err := userSvc.Delete(r.Context(), callerID(r), chi.URLParam(r, "id")); err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "User deleted", nil)
	}
}

// StatsHandler handles GET /api/admin/stats
func StatsHandler(statsSvc *services.StatsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		stats, err := statsSvc.Dashboard(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Dashboard stats fetched", stats)
	}
}

// ============================================================================
// Handler Methods (Wrapped for DI pattern - Hybrid Approach)
// ============================================================================

func (h *Handlers) ListUsers() http.HandlerFunc {
	return ListUsersHandler(h.deps.Services.User)
}

func (h *Handlers) GetUser() http.HandlerFunc {
	return GetUserHandler(h.deps.Services.User)
}

func (h *Handlers) CreateUser() http.HandlerFunc {
	return CreateUserHandler(h.deps.Services.User)
}

func (h *Handlers) UpdateUser() http.HandlerFunc {
	return UpdateUserHandler(h.deps.Services.User)
}

func (h *Handlers) DeleteUser() http.HandlerFunc {
	return DeleteUserHandler(h.deps.Services.User)
}

func (h *Handlers) Stats() http.HandlerFunc {
	return StatsHandler(h.deps.Services.Stats)
}
