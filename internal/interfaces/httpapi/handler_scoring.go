package httpapi

import (
	"net/http"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/weeklystat"
	"github.com/mlonzayes/dbr-fantasy/internal/usecase"
)

func (h *Handler) IngestScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestScores")
	defer span.End()

	var req ingestScoresRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	rows := make([]weeklystat.RawRow, 0, len(req.Rows))
	for _, row := range req.Rows {
		rows = append(rows, weeklystat.RawRow(row))
	}

	result, err := h.scoringService.IngestWeeklyScores(ctx, usecase.IngestWeeklyScoresInput{
		Week: req.Week,
		Year: req.Year,
		Rows: rows,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "ingest weekly scores failed", "week", req.Week, "year", req.Year, "error", err)
		writeError(ctx, w, err)
		return
	}
	if len(result.Errors) > 0 {
		h.logger.WarnContext(ctx, "weekly scores ingested with row errors",
			"week", req.Week,
			"year", req.Year,
			"processed", result.Processed,
			"errors", len(result.Errors),
		)
	}

	writeSuccess(ctx, w, http.StatusOK, ingestScoresResponse{
		Processed:        result.Processed,
		DivisionsUpdated: result.DivisionsUpdated,
		PricesChanged:    result.PricesChanged,
		Errors:           errorsOrEmpty(result.Errors),
	})
}
