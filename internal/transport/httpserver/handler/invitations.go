package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	householddomain "household-ledger-go/internal/domain/household"
	invitationdomain "household-ledger-go/internal/domain/invitation"
	"household-ledger-go/internal/transport/httpserver/middleware"
)

type createInvitationRequest struct {
	Email string               `json:"email"`
	Role  householddomain.Role `json:"role"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

func (h *Handlers) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	var req createInvitationRequest
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

	created, err := h.Invitations.Create(r.Context(), householdID, user.ID, req.Email, req.Role)
	if err != nil {
		h.invitationError(w, "invitations.create", err, user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) ListHouseholdInvitations(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or missing bearer token")
		return
	}
	householdID := chi.URLParam(r, "household_id")

	invitations, err := h.Invitations.ListForHousehold(r.Context(), householdID, user.ID)
	if err != nil {
		h.invitationError(w, "invitations.list", err, user.ID)
		return
	}
	writeJSON(w, http.StatusOK, invitations)
}

func (h *Handlers) CancelInvitation(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or missing bearer token")
		return
	}
	householdID := chi.URLParam(r, "household_id")
	invitationID := chi.URLParam(r, "invitation_id")

	if err := h.Invitations.Cancel(r.Context(), householdID, invitationID, user.ID); err != nil {
		h.invitationError(w, "invitations.cancel", err, user.ID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListMyInvitations(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or missing bearer token")
		return
	}
	if user.Email == "" {
		writeJSON(w, http.StatusOK, []invitationdomain.View{})
		return
	}

	invitations, err := h.Invitations.ListForEmail(r.Context(), user.Email)
	if err != nil {
		h.invitationError(w, "invitations.mine", err, user.ID)
		return
	}
	writeJSON(w, http.StatusOK, invitations)
}

func (h *Handlers) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or missing bearer token")
		return
	}

	result, err := h.Invitations.Accept(r.Context(), req.Token, user.ID, user.Email)
	if err != nil {
		h.invitationError(w, "invitations.accept", err, user.ID)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) RejectInvitation(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or missing bearer token")
		return
	}

	if err := h.Invitations.Reject(r.Context(), req.Token, user.Email); err != nil {
		h.invitationError(w, "invitations.reject", err, user.ID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) invitationError(w http.ResponseWriter, op string, err error, userID string) {
	switch {
	case errors.Is(err, invitationdomain.ErrInvalidToken):
		h.log.BusinessError(op+": missing token", err, "user_id", userID)
		writeError(w, http.StatusBadRequest, "invalid_token", "invitation token is required")
	case errors.Is(err, invitationdomain.ErrInvitationUnusable):
		h.log.BusinessError(op+": invitation unusable", err, "user_id", userID)
		writeError(w, http.StatusGone, "invitation_unusable", "invitation is expired or already processed")
	case errors.Is(err, invitationdomain.ErrInvitationNotFound):
		h.log.BusinessError(op+": invitation not found", err, "user_id", userID)
		writeError(w, http.StatusNotFound, "invitation_not_found", "invitation not found")
	case errors.Is(err, invitationdomain.ErrDuplicateInvitation):
		h.log.BusinessError(op+": duplicate pending invitation", err, "user_id", userID)
		writeError(w, http.StatusConflict, "duplicate_invitation", "a pending invitation already exists for this email")
	case errors.Is(err, invitationdomain.ErrForbidden), errors.Is(err, householddomain.ErrNotMember):
		h.log.BusinessError(op+": policy refused", err, "user_id", userID)
		writeError(w, http.StatusForbidden, "forbidden", "insufficient role for this action")
	case errors.Is(err, invitationdomain.ErrEmailMismatch):
		h.log.BusinessError(op+": email mismatch", err, "user_id", userID)
		writeError(w, http.StatusForbidden, "forbidden", "invitation addressed to a different email")
	case errors.Is(err, invitationdomain.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "validation_error", "invalid email address")
	case errors.Is(err, invitationdomain.ErrInvalidRole):
		writeError(w, http.StatusBadRequest, "validation_error", "invitation role must be admin or member")
	case errors.Is(err, householddomain.ErrAlreadyMember):
		h.log.BusinessError(op+": already a member", err, "user_id", userID)
		writeError(w, http.StatusConflict, "already_member", "already a member of this household")
	case errors.Is(err, householddomain.ErrHouseholdNotFound):
		h.log.BusinessError(op+": household gone", err, "user_id", userID)
		writeError(w, http.StatusNotFound, "household_not_found", "household not found")
	default:
		h.log.InternalError(op+": failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
