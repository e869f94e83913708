package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"riverbend/portal/internal/common"
	"riverbend/portal/internal/models/dtos"
	"riverbend/portal/internal/services"
)

// AdminListEventsHandler handles GET /api/admin/events?category=
//
// Includes drafts.
func AdminListEventsHandler(eventSvc *services.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		events, err := eventSvc.ListAdmin(r.Context(), r.URL.Query().Get("category"))
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Events fetched", events)
	}
}

// CreateEventHandler handles POST /api/admin/events
func CreateEventHandler(eventSvc *services.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.EventRequest
		if !decodeJSON(w, r, initTime, &req) {
			return
		}

		event, err := eventSvc.Create(r.Context(), callerID(r), req)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Event created", event, http.StatusCreated)
	}
}

// UpdateEventHandler handles PUT /api/admin/events/{id}
func UpdateEventHandler(eventSvc *services.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.EventRequest
		if !decodeJSON(w, r, initTime, &req) {
			return
		}

		event, err := eventSvc.Update(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Event updated", event)
	}
}

// DeleteEventHandler handles DELETE /api/admin/events/{id}
func DeleteEventHandler(eventSvc *services.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if err := eventSvc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Event deleted", nil)
	}
}

// ListEventSignupsHandler handles GET /api/admin/events/{id}/signups
func ListEventSignupsHandler(eventSvc *services.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		signups, err := eventSvc.ListSignups(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Signups fetched", signups)
	}
}

// UpdateSignupHandler handles PUT /api/admin/signups/{id}
//
// Approving emails the shift assignment; checking in credits hours.
func UpdateSignupHandler(eventSvc *services.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.SignupUpdateRequest
		if !decodeJSON(w, r, initTime, &req) {
			return
		}

		signup, err := eventSvc.UpdateSignup(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Signup updated", signup)
	}
}

// AdminListAnnouncementsHandler handles GET /api/admin/announcements
//
// Includes drafts and scheduled announcements.
func AdminListAnnouncementsHandler(announcementSvc *services.AnnouncementService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		items, err := announcementSvc.ListAll(r.Context(), pageFromQuery(r))
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Announcements fetched", items)
	}
}

// CreateAnnouncementHandler handles POST /api/admin/announcements
func CreateAnnouncementHandler(announcementSvc *services.AnnouncementService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.AnnouncementRequest
		if !decodeJSON(w, r, initTime, &req) {
			return
		}

		item, err := announcementSvc.Create(r.Context(), callerID(r), req)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Announcement created", item, http.StatusCreated)
	}
}

// UpdateAnnouncementHandler handles PUT /api/admin/announcements/{id}
func UpdateAnnouncementHandler(announcementSvc *services.AnnouncementService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.AnnouncementRequest
		if !decodeJSON(w, r, initTime, &req) {
			return
		}

		item, err := announcementSvc.Update(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Announcement updated", item)
	}
}

// DeleteAnnouncementHandler handles DELETE /api/admin/announcements/{id}
func DeleteAnnouncementHandler(announcementSvc *services.AnnouncementService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if err := announcementSvc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Announcement deleted", nil)
	}
}

// ============================================================================
// Handler Methods (Wrapped for DI pattern - Hybrid Approach)
// ============================================================================

func (h *Handlers) AdminListEvents() http.HandlerFunc {
	return AdminListEventsHandler(h.deps.Services.Event)
}

func (h *Handlers) CreateEvent() http.HandlerFunc {
	return CreateEventHandler(h.deps.Services.Event)
}

func (h *Handlers) UpdateEvent() http.HandlerFunc {
	return UpdateEventHandler(h.deps.Services.Event)
}

func (h *Handlers) DeleteEvent() http.HandlerFunc {
	return DeleteEventHandler(h.deps.Services.Event)
}

func (h *Handlers) ListEventSignups() http.HandlerFunc {
	return ListEventSignupsHandler(h.deps.Services.Event)
}

func (h *Handlers) UpdateSignup() http.HandlerFunc {
	return UpdateSignupHandler(h.deps.Services.Event)
}

func (h *Handlers) AdminListAnnouncements() http.HandlerFunc {
	return AdminListAnnouncementsHandler(h.deps.Services.Announcement)
}

func (h *Handlers) CreateAnnouncement() http.HandlerFunc {
	return CreateAnnouncementHandler(h.deps.Services.Announcement)
}

func (h *Handlers) UpdateAnnouncement() http.HandlerFunc {
	return UpdateAnnouncementHandler(h.deps.Services.Announcement)
}

func (h *Handlers) DeleteAnnouncement() http.HandlerFunc {
	return DeleteAnnouncementHandler(h.deps.Services.Announcement)
}
