package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"riverbend/portal/internal/common"
	"riverbend/portal/internal/models/dtos"
	"riverbend/portal/internal/services"
)

// GetMeHandler handles GET /api/me
func GetMeHandler(userSvc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		user, err := userSvc.Me(r.Context(), callerID(r))
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "User details fetched successfully", user)
	}
}

// UpdateMeHandler handles PUT /api/me
//
// Members may change their name, phone, title and bio. Email and role are
// admin-only.
func UpdateMeHandler(userSvc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.UpdateMeRequest
		if !decodeJSON(w, r, initTime, &req) {
			return
		}

		user, err := userSvc.UpdateMe(r.Context(), callerID(r), req)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Profile updated", user)
	}
}

// GetVolunteerProfileHandler handles GET /api/volunteer/profile
func GetVolunteerProfileHandler(volunteerSvc *services.VolunteerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		profile, err := volunteerSvc.Profile(r.Context(), callerID(r))
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Volunteer profile fetched", profile)
	}
}

// UpdateVolunteerProfileHandler handles PUT /api/volunteer/profile
func UpdateVolunteerProfileHandler(volunteerSvc *services.VolunteerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.VolunteerProfileRequest
		if !decodeJSON(w, r, initTime, &req) {
			return
		}

		profile, err := volunteerSvc.UpdateProfile(r.Context(), callerID(r), req)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Volunteer profile updated", profile)
	}
}

// MySignupsHandler handles GET /api/volunteer/signups
func MySignupsHandler(eventSvc *services.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		signups, err := eventSvc.MySignups(r.Context(), callerID(r))
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Signups fetched", signups)
	}
}

// EventSignupHandler handles POST /api/events/{id}/signup
//
// Full events and repeat signups answer 409.
func EventSignupHandler(eventSvc *services.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		signup, err := eventSvc.Signup(r.Context(), callerID(r), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Signed up", signup, http.StatusCreated)
	}
}

// CancelSignupHandler handles DELETE /api/events/{id}/signup
func CancelSignupHandler(eventSvc *services.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if err := eventSvc.Cancel(r.Context(), callerID(r), chi.URLParam(r, "id")); err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Signup cancelled", nil)
	}
}

// ============================================================================
// Handler Methods (Wrapped for DI pattern - Hybrid Approach)
// ============================================================================

func (h *Handlers) GetMe() http.HandlerFunc {
	return GetMeHandler(h.deps.Services.User)
}

func (h *Handlers) UpdateMe() http.HandlerFunc {
	return UpdateMeHandler(h.deps.Services.User)
}

func (h *Handlers) GetVolunteerProfile() http.HandlerFunc {
	return GetVolunteerProfileHandler(h.deps.Services.Volunteer)
}

func (h *Handlers) UpdateVolunteerProfile() http.HandlerFunc {
	return UpdateVolunteerProfileHandler(h.deps.Services.Volunteer)
}

func (h *Handlers) MySignups() http.HandlerFunc {
	return MySignupsHandler(h.deps.Services.Event)
}

func (h *Handlers) EventSignup() http.HandlerFunc {
	return EventSignupHandler(h.deps.Services.Event)
}

func (h *Handlers) CancelSignup() http.HandlerFunc {
	return CancelSignupHandler(h.deps.Services.Event)
}
