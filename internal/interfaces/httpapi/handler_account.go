package httpapi

import (
	"net/http"

	"github.com/mlonzayes/dbr-fantasy/internal/usecase"
)

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMe")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	account, err := h.accountService.GetAccount(ctx, principal.UserID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, accountToDTO(principal, account))
}

// HandleIdentityEvent consumes membership webhooks from the identity provider.
func (h *Handler) HandleIdentityEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.HandleIdentityEvent")
	defer span.End()

	var req membershipEventRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	err := h.accountService.HandleMembershipEvent(ctx, usecase.MembershipEvent{
		Type:   req.Type,
		UserID: req.Data.ID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "handle identity event failed", "type", req.Type, "user_id", req.Data.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "accepted"})
}

func (h *Handler) GetOnboarding(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetOnboarding")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	profile, err := h.onboardingService.GetProfile(ctx, principal.UserID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, onboardingToDTO(profile))
}

func (h *Handler) PutOnboarding(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PutOnboarding")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req onboardingRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	profile, err := h.onboardingService.SetCompleted(ctx, principal.UserID, *req.Completed)
	if err != nil {
		h.logger.WarnContext(ctx, "update onboarding failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, onboardingToDTO(profile))
}
