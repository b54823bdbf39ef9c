package httpapi

import (
	"net/http"

	"github.com/mlonzayes/dbr-fantasy/internal/usecase"
)

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTeam")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createTeamRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.rosterService.CreateTeam(ctx, usecase.CreateTeamInput{
		UserID:    principal.UserID,
		Name:      req.Name,
		PlayerIDs: req.PlayerIDs,
		CoachID:   req.CoachID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create team failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, createTeamResultToDTO(result))
}

func (h *Handler) GetMyTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyTeam")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.rosterService.GetTeam(ctx, principal.UserID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamViewToDTO(view))
}

func (h *Handler) GetMyTeamStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyTeamStats")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	stats, err := h.rosterService.GetTeamStats(ctx, principal.UserID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamStatsToDTO(stats))
}

func (h *Handler) BuyPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BuyPlayer")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req tradeRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.marketService.Buy(ctx, principal.UserID, req.PlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "buy player failed", "user_id", principal.UserID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, buyResponse{
		Player:     playerToDTO(result.Player),
		Price:      result.Price,
		NewBalance: result.NewBalance,
	})
}

func (h *Handler) SellPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SellPlayer")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req tradeRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.marketService.Sell(ctx, principal.UserID, req.PlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "sell player failed", "user_id", principal.UserID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sellResponse{
		Player:       playerToDTO(result.Player),
		RefundAmount: result.RefundAmount,
		NewBalance:   result.NewBalance,
	})
}

func (h *Handler) SetCoach(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetCoach")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req setCoachRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	selected, err := h.marketService.SetCoach(ctx, principal.UserID, req.CoachID)
	if err != nil {
		h.logger.WarnContext(ctx, "set coach failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, setCoachResponse{Coach: coachToDTO(selected)})
}
