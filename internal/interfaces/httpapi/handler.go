package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/tournament-engine/internal/platform/id"
	"github.com/riskibarqy/tournament-engine/internal/platform/logging"
	"github.com/riskibarqy/tournament-engine/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	structureService  *usecase.StructureService
	groupPhaseService *usecase.GroupPhaseService
	matchService      *usecase.MatchService
	standingsService  *usecase.StandingsService
	runIDs            id.Generator
	batchWorkers      int
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	structureService *usecase.StructureService,
	groupPhaseService *usecase.GroupPhaseService,
	matchService *usecase.MatchService,
	standingsService *usecase.StandingsService,
	runIDs id.Generator,
	batchWorkers int,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if runIDs == nil {
		runIDs = id.NewRandomGenerator()
	}

	return &Handler{
		structureService:  structureService,
		groupPhaseService: groupPhaseService,
		matchService:      matchService,
		standingsService:  standingsService,
		runIDs:            runIDs,
		batchWorkers:      batchWorkers,
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
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, dst)
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", usecase.ErrInvalidInput, name, raw)
	}
	return v, nil
}

// queryLimit reads ?limit=; a missing value means no limit.
func queryLimit(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: limit must be a non-negative integer, got %q", usecase.ErrInvalidInput, raw)
	}
	return v, nil
}
