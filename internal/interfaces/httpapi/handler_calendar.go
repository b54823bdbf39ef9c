package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mlonzayes/dbr-fantasy/internal/usecase"
)

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	items, err := h.calendarService.List(ctx, r.URL.Query().Get("round"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchesToDTO(items))
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	var req createMatchRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: date must be RFC 3339: %v", usecase.ErrInvalidInput, err))
		return
	}

	item, err := h.calendarService.Create(ctx, usecase.CreateMatchInput{
		Round:    req.Round,
		HomeTeam: req.HomeTeam,
		AwayTeam: req.AwayTeam,
		Stadium:  req.Stadium,
		Date:     date,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create match failed", "round", req.Round, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(item))
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	if err := h.calendarService.Delete(ctx, matchID); err != nil {
		h.logger.WarnContext(ctx, "delete match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"match_id": matchID, "status": "deleted"})
}
