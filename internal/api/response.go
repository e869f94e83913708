package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"riverbend/portal/internal/auth"
	"riverbend/portal/internal/common"
	"riverbend/portal/internal/constants"
	"riverbend/portal/internal/db/repositories"
	"riverbend/portal/internal/services"
)

const maxJSONBody = 1 << 20

// respondServiceError maps a service failure onto the error envelope.
// Internal details are logged, never returned.
func respondServiceError(w http.ResponseWriter, initTime time.Time, err error) {
	var se *services.ServiceError
	if !errors.As(err, &se) {
		common.RespondError(w, initTime, err, constants.MsgInternal, http.StatusInternalServerError)
		return
	}

	switch se.Kind {
	case services.KindValidation:
		common.RespondErrorFields(w, initTime, err, se.Message, se.Fields, http.StatusBadRequest)
	case services.KindUnauthorized:
		common.RespondError(w, initTime, err, se.Message, http.StatusUnauthorized)
	case services.KindNotFound:
		common.RespondError(w, initTime, err, se.Message, http.StatusNotFound)
	case services.KindConflict:
		common.RespondError(w, initTime, err, se.Message, http.StatusConflict)
	case services.KindTooLarge:
		common.RespondError(w, initTime, err, se.Message, http.StatusRequestEntityTooLarge)
	default:
		common.RespondError(w, initTime, err, constants.MsgInternal, http.StatusInternalServerError)
	}
}

// decodeJSON reads a bounded JSON body into dst, answering 400 itself on
// failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, initTime time.Time, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		common.RespondError(w, initTime, err, constants.MsgInvalidBody, http.StatusBadRequest)
		return false
	}
	return true
}

// pageFromQuery reads limit and offset. Limit defaults to 50 and is
// capped at 200.
func pageFromQuery(r *http.Request) repositories.Page {
	q := r.URL.Query()
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	offset, err := strconv.Atoi(q.Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return repositories.Page{Limit: min(limit, 200), Offset: offset}
}

func callerRole(r *http.Request) constants.Role {
	return auth.RoleOf(auth.GetUserClaims(r.Context()))
}

// callerID is empty for anonymous requests.
func callerID(r *http.Request) string {
	if claims := auth.GetUserClaims(r.Context()); claims != nil {
		return claims.UserID()
	}
	return ""
}
