package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	householddomain "household-ledger-go/internal/domain/household"
	"household-ledger-go/internal/transport/httpserver/middleware"
)

type createHouseholdRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Currency    string `json:"currency"`
}

type updateHouseholdRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Currency    *string `json:"currency"`
}

type householdResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Currency    string               `json:"currency"`
	MemberCount int64                `json:"member_count"`
	MyRole      householddomain.Role `json:"my_role"`
	CreatedAt   time.Time            `json:"created_at"`
}

type memberResponse struct {
	UserID   string               `json:"user_id"`
	Username string               `json:"username"`
	Email    *string              `json:"email,omitempty"`
	Role     householddomain.Role `json:"role"`
	JoinedAt time.Time            `json:"joined_at"`
}

type householdDetailResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Currency    string               `json:"currency"`
	MyRole      householddomain.Role `json:"my_role"`
	CreatedAt   time.Time            `json:"created_at"`
	Members     []memberResponse     `json:"members"`
}

func (h *Handlers) ListHouseholds(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or missing bearer token")
		return
	}

	summaries, err := h.Households.ListByUser(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("households.list: query failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]householdResponse, 0, len(summaries))
	for _, s := range summaries {
		response = append(response, householdResponse{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Currency:    s.Currency,
			MemberCount: s.MemberCount,
			MyRole:      s.MyRole,
			CreatedAt:   s.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateHousehold(w http.ResponseWriter, r *http.Request) {
	var req createHouseholdRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "name is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or missing bearer token")
		return
	}

	created, err := h.Households.Create(r.Context(), user.ID, req.Name, req.Description, req.Currency)
	if err != nil {
		h.householdError(w, "households.create", err, user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, householdResponse{
		ID:          created.ID,
		Name:        created.Name,
		Description: created.Description,
		Currency:    created.Currency,
		MemberCount: 1,
		MyRole:      householddomain.RoleOwner,
		CreatedAt:   created.CreatedAt,
	})
}

func (h *Handlers) GetHouseholdDetail(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or missing bearer token")
		return
	}
	householdID := chi.URLParam(r, "household_id")

	detail, err := h.Households.Detail(r.Context(), householdID, user.ID)
	if err != nil {
		h.householdError(w, "households.detail", err, user.ID)
		return
	}

	members := make([]memberResponse, 0, len(detail.Members))
	var myRole householddomain.Role
	for _, m := range detail.Members {
		if m.UserID == user.ID {
			myRole = m.Role
		}
		members = append(members, memberResponse{
			UserID:   m.UserID,
			Username: m.Username,
			Email:    m.Email,
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
		})
	}

	writeJSON(w, http.StatusOK, householdDetailResponse{
		ID:          detail.ID,
		Name:        detail.Name,
		Description: detail.Description,
		Currency:    detail.Currency,
		MyRole:      myRole,
		CreatedAt:   detail.CreatedAt,
		Members:     members,
	})
}

func (h *Handlers) UpdateHousehold(w http.ResponseWriter, r *http.Request) {
	var req updateHouseholdRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "name is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or missing bearer token")
		return
	}
	householdID := chi.URLParam(r, "household_id")

	updated, err := h.Households.Update(r.Context(), householdID, user.ID, householddomain.Patch{
		Name:        req.Name,
		Description: req.Description,
		Currency:    req.Currency,
	})
	if err != nil {
		h.householdError(w, "households.update", err, user.ID)
		return
	}

	writeJSON(w, http.StatusOK, householdResponse{
		ID:          updated.ID,
		Name:        updated.Name,
		Description: updated.Description,
		Currency:    updated.Currency,
		CreatedAt:   updated.CreatedAt,
	})
}

func (h *Handlers) DeleteHousehold(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or missing bearer token")
		return
	}
	householdID := chi.URLParam(r, "household_id")

	if err := h.Households.Delete(r.Context(), householdID, user.ID); err != nil {
		h.householdError(w, "households.delete", err, user.ID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) LeaveHousehold(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or missing bearer token")
		return
	}
	householdID := chi.URLParam(r, "household_id")

	if err := h.Households.Leave(r.Context(), householdID, user.ID); err != nil {
		h.householdError(w, "households.leave", err, user.ID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// householdError translates household domain errors into the wire envelope.
// Expected refusals log at business level, the rest as internal failures.
func (h *Handlers) householdError(w http.ResponseWriter, op string, err error, userID string) {
	switch {
	case errors.Is(err, householddomain.ErrHouseholdNotFound):
		h.log.BusinessError(op+": household not found", err, "user_id", userID)
		writeError(w, http.StatusNotFound, "household_not_found", "household not found")
	case errors.Is(err, householddomain.ErrMemberNotFound):
		h.log.BusinessError(op+": member not found", err, "user_id", userID)
		writeError(w, http.StatusNotFound, "member_not_found", "member not found")
	case errors.Is(err, householddomain.ErrNotMember):
		h.log.BusinessError(op+": requester is not a member", err, "user_id", userID)
		writeError(w, http.StatusForbidden, "forbidden", "not a member of this household")
	case errors.Is(err, householddomain.ErrForbidden):
		h.log.BusinessError(op+": policy refused", err, "user_id", userID)
		writeError(w, http.StatusForbidden, "forbidden", "insufficient role for this action")
	case errors.Is(err, householddomain.ErrOwnerCannotLeave):
		h.log.BusinessError(op+": owner tried to leave", err, "user_id", userID)
		writeError(w, http.StatusForbidden, "forbidden", "owner cannot leave household")
	case errors.Is(err, householddomain.ErrAlreadyMember):
		h.log.BusinessError(op+": already a member", err, "user_id", userID)
		writeError(w, http.StatusConflict, "already_member", "already a member of this household")
	case errors.Is(err, householddomain.ErrInvalidRole):
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid role")
	case errors.Is(err, householddomain.ErrInvalidCurrency):
		writeError(w, http.StatusBadRequest, "validation_error", "invalid currency code")
	default:
		h.log.InternalError(op+": failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
