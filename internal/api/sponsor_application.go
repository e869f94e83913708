package api

import (
	"net/http"
	"time"

	"riverbend/portal/internal/common"
	"riverbend/portal/internal/models/dtos"
	"riverbend/portal/internal/services"
)

// ValidateApplicationStepHandler handles POST /api/sponsor/apply/validate
//
// Validates the fields of one form step and reports where the client may
// move next. Invalid fields answer 200 with valid=false; only an unknown
// step is a 400.
func ValidateApplicationStepHandler(appSvc *services.SponsorApplicationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.StepValidationRequest
		if !decodeJSON(w, r, initTime, &req) {
			return
		}

		resp, err := appSvc.ValidateStep(req)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Step validated", resp)
	}
}

// ApplyHandler handles POST /api/sponsor/apply
//
// Success is written without the generic envelope:
// {success, sponsorId, paymentInstructions}. A contact email that already
// belongs to a sponsor answers 409.
func ApplyHandler(appSvc *services.SponsorApplicationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.SponsorApplicationRequest
		if !decodeJSON(w, r, initTime, &req) {
			return
		}

		resp, err := appSvc.Apply(r.Context(), req)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.WriteJSON(w, http.StatusOK, resp)
	}
}

// ============================================================================
// Handler Methods (Wrapped for DI pattern - Hybrid Approach)
// ============================================================================

func (h *Handlers) ValidateApplicationStep() http.HandlerFunc {
	return ValidateApplicationStepHandler(h.deps.Services.Application)
}

func (h *Handlers) Apply() http.HandlerFunc {
	return ApplyHandler(h.deps.Services.Application)
}
