package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/user"
	"github.com/mlonzayes/dbr-fantasy/internal/platform/logging"
	"github.com/mlonzayes/dbr-fantasy/internal/usecase"
)

const maxRequestBodyBytes = 4 << 20

type Handler struct {
	rosterService     *usecase.RosterService
	marketService     *usecase.MarketService
	scoringService    *usecase.ScoringService
	catalogService    *usecase.CatalogService
	windowService     *usecase.TransferWindowService
	rankingService    *usecase.RankingService
	accountService    *usecase.AccountService
	onboardingService *usecase.OnboardingService
	calendarService   *usecase.CalendarService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	rosterService *usecase.RosterService,
	marketService *usecase.MarketService,
	scoringService *usecase.ScoringService,
	catalogService *usecase.CatalogService,
	windowService *usecase.TransferWindowService,
	rankingService *usecase.RankingService,
	accountService *usecase.AccountService,
	onboardingService *usecase.OnboardingService,
	calendarService *usecase.CalendarService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		rosterService:     rosterService,
		marketService:     marketService,
		scoringService:    scoringService,
		catalogService:    catalogService,
		windowService:     windowService,
		rankingService:    rankingService,
		accountService:    accountService,
		onboardingService: onboardingService,
		calendarService:   calendarService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeAndValidate reads a JSON body into dst, rejecting unknown fields.
func (h *Handler) decodeAndValidate(ctx context.Context, r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, dst)
}

func requirePrincipal(ctx context.Context) (user.Principal, error) {
	sess, ok := sessionFrom(ctx)
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized)
	}
	return sess.Principal, nil
}
