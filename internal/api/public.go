package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"riverbend/portal/internal/common"
	"riverbend/portal/internal/services"
)

// TiersHandler handles GET /api/tiers
func TiersHandler(sponsorSvc *services.SponsorService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		bands, err := sponsorSvc.Tiers(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Sponsorship tiers fetched", bands)
	}
}

// SponsorWallHandler handles GET /api/sponsors
//
// Active sponsors with their effective tier, for the public sponsor wall.
func SponsorWallHandler(sponsorSvc *services.SponsorService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		wall, err := sponsorSvc.Wall(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Sponsors fetched", wall)
	}
}

// ListEventsHandler handles GET /api/events?category=
func ListEventsHandler(eventSvc *services.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		events, err := eventSvc.ListPublic(r.Context(), r.URL.Query().Get("category"))
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Events fetched", events)
	}
}

// GetEventHandler handles GET /api/events/{id}
func GetEventHandler(eventSvc *services.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		event, err := eventSvc.Get(r.Context(), chi.URLParam(r, "id"), false)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Event fetched", event)
	}
}

// BoardHandler handles GET /api/board
func BoardHandler(userSvc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		board, err := userSvc.Board(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Board members fetched", board)
	}
}

// AnnouncementsHandler handles GET /api/announcements
//
// Published announcements whose audience includes the caller's role.
// Anonymous callers only see audience "all".
func AnnouncementsHandler(announcementSvc *services.AnnouncementService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		items, err := announcementSvc.Visible(r.Context(), callerRole(r))
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Announcements fetched", items)
	}
}

// ============================================================================
// Handler Methods (Wrapped for DI pattern - Hybrid Approach)
// ============================================================================

func (h *Handlers) Tiers() http.HandlerFunc {
	return TiersHandler(h.deps.Services.Sponsor)
}

func (h *Handlers) SponsorWall() http.HandlerFunc {
	return SponsorWallHandler(h.deps.Services.Sponsor)
}

func (h *Handlers) ListEvents() http.HandlerFunc {
	return ListEventsHandler(h.deps.Services.Event)
}

func (h *Handlers) GetEvent() http.HandlerFunc {
	return GetEventHandler(h.deps.Services.Event)
}

func (h *Handlers) Board() http.HandlerFunc {
	return BoardHandler(h.deps.Services.User)
}

func (h *Handlers) Announcements() http.HandlerFunc {
	return AnnouncementsHandler(h.deps.Services.Announcement)
}
