package httpapi

import (
	"net/http"

	"github.com/riskibarqy/tournament-engine/internal/usecase"
)

func (h *Handler) GetMatchSheet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchSheet")
	defer span.End()

	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	sheet, err := h.standingsService.GetMatchSheet(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match sheet failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchSheetToDTO(sheet))
}

func (h *Handler) StartMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartMatch")
	defer span.End()

	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.matchService.StartMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "start match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(updated))
}

func (h *Handler) FinishMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinishMatch")
	defer span.End()

	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.matchService.FinishMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "finish match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, finishResultDTO{
		Match:    matchToDTO(result.Match),
		Advanced: matchesToDTO(result.Advanced),
	})
}

// RegisterScore applies one increment to a live match.
func (h *Handler) RegisterScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterScore")
	defer span.End()

	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req registerScoreRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.matchService.RegisterScore(ctx, usecase.RegisterScoreInput{
		MatchID:   matchID,
		Side:      req.Side,
		Increment: req.Increment,
		SegmentID: req.SegmentID,
		Metric:    req.Metric,
		PlayerID:  req.PlayerID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "register score failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(updated))
}

// SetScore overwrites the match and segment scores of a live match.
func (h *Handler) SetScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetScore")
	defer span.End()

	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req setScoreRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.SetScoreInput{
		MatchID:   matchID,
		HomeScore: req.HomeScore,
		AwayScore: req.AwayScore,
	}
	for _, seg := range req.Segments {
		input.Segments = append(input.Segments, usecase.SegmentScore{
			SegmentID: seg.SegmentID,
			HomeScore: seg.HomeScore,
			AwayScore: seg.AwayScore,
			Finished:  seg.Finished,
		})
	}
	for _, ev := range req.StatsEvents {
		input.StatsEvents = append(input.StatsEvents, usecase.StatsEvent{
			PlayerID: ev.PlayerID,
			Metric:   ev.Metric,
			Value:    ev.Value,
		})
	}

	updated, err := h.matchService.SetScore(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "set score failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(updated))
}
