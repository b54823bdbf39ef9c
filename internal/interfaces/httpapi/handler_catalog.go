package httpapi

import (
	"net/http"
	"strings"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/player"
	"github.com/mlonzayes/dbr-fantasy/internal/usecase"
)

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	query := r.URL.Query()
	items, err := h.catalogService.ListPlayers(ctx, usecase.PlayerFilter{
		Position: player.Position(strings.TrimSpace(query.Get("position"))),
		Division: strings.TrimSpace(query.Get("division")),
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(items))
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	item, err := h.catalogService.GetPlayer(ctx, r.PathValue("playerID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(item))
}

func (h *Handler) ListCoaches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCoaches")
	defer span.End()

	items, err := h.catalogService.ListCoaches(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, coachesToDTO(items))
}

func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePlayer")
	defer span.End()

	var req createPlayerRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.catalogService.CreatePlayer(ctx, usecase.CreatePlayerInput{
		Name:     req.Name,
		Position: req.Position,
		Division: req.Division,
		Price:    req.Price,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create player failed", "name", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, playerToDTO(item))
}

func (h *Handler) BulkCreatePlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BulkCreatePlayers")
	defer span.End()

	var req bulkCreatePlayersRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	inputs := make([]usecase.CreatePlayerInput, 0, len(req.Players))
	for _, row := range req.Players {
		inputs = append(inputs, usecase.CreatePlayerInput{
			Name:     row.Name,
			Position: row.Position,
			Division: row.Division,
			Price:    row.Price,
			ImageURL: row.ImageURL,
		})
	}

	result, err := h.catalogService.BulkCreatePlayers(ctx, inputs)
	if err != nil {
		h.logger.WarnContext(ctx, "bulk create players failed", "rows", len(inputs), "error", err)
		writeError(ctx, w, err)
		return
	}
	if len(result.Errors) > 0 {
		h.logger.WarnContext(ctx, "bulk create players had row errors", "failed", len(result.Errors))
	}

	writeSuccess(ctx, w, http.StatusOK, bulkCreatePlayersResponse{
		Processed: len(result.Players),
		Players:   playersToDTO(result.Players),
		Errors:    errorsOrEmpty(result.Errors),
	})
}

func (h *Handler) AdjustPlayerPrice(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdjustPlayerPrice")
	defer span.End()

	playerID := r.PathValue("playerID")
	var req adjustPriceRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.catalogService.AdjustPrice(ctx, playerID, req.Delta)
	if err != nil {
		h.logger.WarnContext(ctx, "adjust player price failed", "player_id", playerID, "delta", req.Delta, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(item))
}

func (h *Handler) BulkAdjustPrices(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BulkAdjustPrices")
	defer span.End()

	var req bulkPriceRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]usecase.PriceAdjustment, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, usecase.PriceAdjustment{PlayerID: item.PlayerID, Delta: item.Delta})
	}

	result, err := h.catalogService.BulkAdjustPrices(ctx, items)
	if err != nil {
		h.logger.WarnContext(ctx, "bulk adjust prices failed", "items", len(items), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, bulkPriceResponse{
		Updated: result.Updated,
		Errors:  errorsOrEmpty(result.Errors),
	})
}

func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeletePlayer")
	defer span.End()

	playerID := r.PathValue("playerID")
	result, err := h.catalogService.DeletePlayer(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "delete player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, deletePlayerResponse{
		PlayerID:      result.PlayerID,
		RefundedUsers: result.RefundedUsers,
		RefundAmount:  result.RefundAmount,
	})
}

func (h *Handler) CreateCoach(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateCoach")
	defer span.End()

	var req createCoachRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.catalogService.CreateCoach(ctx, usecase.CreateCoachInput{
		Name:     req.Name,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create coach failed", "name", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, coachToDTO(&item))
}

func (h *Handler) DeleteCoach(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteCoach")
	defer span.End()

	coachID := r.PathValue("coachID")
	if err := h.catalogService.DeleteCoach(ctx, coachID); err != nil {
		h.logger.WarnContext(ctx, "delete coach failed", "coach_id", coachID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"coach_id": coachID, "status": "deleted"})
}
