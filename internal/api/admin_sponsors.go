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

// ListSponsorsHandler handles GET /api/admin/sponsors?status=&type=&search=&limit=&offset=
func ListSponsorsHandler(sponsorSvc *services.SponsorService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		q := r.URL.Query()
		sponsors, err := sponsorSvc.List(r.Context(), repositories.SponsorFilter{
			Status: constants.SponsorStatus(q.Get("status")),
			Type:   constants.SponsorType(q.Get("type")),
			Search: q.Get("search"),
			Page:   pageFromQuery(r),
		})
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Sponsors fetched", sponsors)
	}
}

// GetSponsorHandler handles GET /api/admin/sponsors/{id}
func GetSponsorHandler(sponsorSvc *services.SponsorService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		sponsor, err := sponsorSvc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Sponsor fetched", sponsor)
	}
}

// CreateSponsorHandler handles POST /api/admin/sponsors
func CreateSponsorHandler(sponsorSvc *services.SponsorService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.AdminSponsorRequest
		if !decodeJSON(w, r, initTime, &req) {
			return
		}

		sponsor, err := sponsorSvc.Create(r.Context(), req)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Sponsor created", sponsor, http.StatusCreated)
	}
}

// UpdateSponsorHandler handles PUT /api/admin/sponsors/{id}
//
// Sending tierOverride "" clears the override.
func UpdateSponsorHandler(sponsorSvc *services.SponsorService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.AdminUpdateSponsorRequest
		if !decodeJSON(w, r, initTime, &req) {
			return
		}

		sponsor, err := sponsorSvc.Update(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Sponsor updated", sponsor)
	}
}

// DeleteSponsorHandler handles DELETE /api/admin/sponsors/{id}
func DeleteSponsorHandler(sponsorSvc *services.SponsorService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if err := sponsorSvc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Sponsor deleted", nil)
	}
}

// ============================================================================
// Handler Methods (Wrapped for DI pattern - Hybrid Approach)
// ============================================================================

func (h *Handlers) ListSponsors() http.HandlerFunc {
	return ListSponsorsHandler(h.deps.Services.Sponsor)
}

func (h *Handlers) GetSponsor() http.HandlerFunc {
	return GetSponsorHandler(h.deps.Services.Sponsor)
}

func (h *Handlers) CreateSponsor() http.HandlerFunc {
	return CreateSponsorHandler(h.deps.Services.Sponsor)
}

func (h *Handlers) UpdateSponsor() http.HandlerFunc {
	return UpdateSponsorHandler(h.deps.Services.Sponsor)
}

func (h *Handlers) DeleteSponsor() http.HandlerFunc {
	return DeleteSponsorHandler(h.deps.Services.Sponsor)
}
