package httpapi

import "net/http"

func (h *Handler) GenerateStructure(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateStructure")
	defer span.End()

	competitionID, err := pathID(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.structureService.GenerateStructure(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "generate structure failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, generateResultToDTO(result))
}

func (h *Handler) GenerateStructureBatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateStructureBatch")
	defer span.End()

	var req generateBatchRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	workers := req.Workers
	if workers == 0 {
		workers = h.batchWorkers
	}

	result, err := h.structureService.GenerateBatch(ctx, req.CompetitionIDs, workers, h.runIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "generate structure batch failed", "competitions", len(req.CompetitionIDs), "error", err)
		writeError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if result.Failed == 0 {
		status = http.StatusCreated
	}
	writeSuccess(ctx, w, status, batchResultToDTO(result))
}

func (h *Handler) AdvanceGroupPhase(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdvanceGroupPhase")
	defer span.End()

	competitionID, err := pathID(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.groupPhaseService.AdvanceGroupPhase(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "advance group phase failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, advanceResultToDTO(result))
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	competitionID, err := pathID(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	standings, err := h.standingsService.GetStandings(ctx, competitionID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "get standings failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(standings))
}

func (h *Handler) GetPlayerRankings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerRankings")
	defer span.End()

	competitionID, err := pathID(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	metric := r.PathValue("metric")

	rankings, err := h.standingsService.GetPlayerRankings(ctx, competitionID, metric, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "get player rankings failed", "competition_id", competitionID, "metric", metric, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerRankingsToDTO(rankings))
}


// ListFixtures lists the competition's matches; ?status= narrows them.
func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtures")
	defer span.End()

	competitionID, err := pathID(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	status := r.URL.Query().Get("status")

	fixtures, err := h.standingsService.ListFixtures(ctx, competitionID, status)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "competition_id", competitionID, "status", status, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchesToDTO(fixtures))
}
