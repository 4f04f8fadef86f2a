package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	householddomain "household-ledger-go/internal/domain/household"
	"household-ledger-go/internal/transport/httpserver/middleware"
)

type updateMemberRoleRequest struct {
	Role householddomain.Role `json:"role"`
}

func (h *Handlers) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	var req updateMemberRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or missing bearer token")
		return
	}
	householdID := chi.URLParam(r, "household_id")
	targetID := chi.URLParam(r, "user_id")

	if err := h.Households.UpdateMemberRole(r.Context(), householdID, user.ID, targetID, req.Role); err != nil {
		h.householdError(w, "members.update_role", err, user.ID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) RemoveMember(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or missing bearer token")
		return
	}
	householdID := chi.URLParam(r, "household_id")
	targetID := chi.URLParam(r, "user_id")

	if err := h.Households.RemoveMember(r.Context(), householdID, user.ID, targetID); err != nil {
		h.householdError(w, "members.remove", err, user.ID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
