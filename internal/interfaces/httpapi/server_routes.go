package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/tournament-engine/internal/platform/metrics"
)

type routeRegistrar struct {
	mux      *http.ServeMux
	recorder *metrics.Recorder
}

func (rr routeRegistrar) handle(pattern string, h http.Handler) {
	method, route, _ := strings.Cut(pattern, " ")
	rr.mux.Handle(pattern, routeMetrics(rr.recorder, method, route, h))
}

func registerSystemRoutes(rr routeRegistrar, handler *Handler, recorder *metrics.Recorder, swaggerEnabled bool) {
	rr.mux.HandleFunc("GET /healthz", handler.Healthz)
	if recorder != nil {
		rr.mux.Handle("GET /metrics", recorder.Handler())
	}
	if !swaggerEnabled {
		return
	}

	rr.mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	rr.mux.HandleFunc("GET /docs", handler.SwaggerUI)
	rr.mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerReadRoutes(rr routeRegistrar, handler *Handler) {
	rr.handle("GET /v1/competitions/{competitionID}/standings", http.HandlerFunc(handler.GetStandings))
	rr.handle("GET /v1/competitions/{competitionID}/rankings/{metric}", http.HandlerFunc(handler.GetPlayerRankings))
	rr.handle("GET /v1/competitions/{competitionID}/matches", http.HandlerFunc(handler.ListFixtures))
	rr.handle("GET /v1/matches/{matchID}", http.HandlerFunc(handler.GetMatchSheet))
}

func registerEngineRoutes(rr routeRegistrar, handler *Handler, internalToken string) {
	guard := func(fn http.HandlerFunc) http.Handler {
		return RequireInternalToken(internalToken, fn)
	}

	rr.handle("POST /v1/competitions/{competitionID}/structure", guard(handler.GenerateStructure))
	rr.handle("POST /v1/competitions/structure/batch", guard(handler.GenerateStructureBatch))
	rr.handle("POST /v1/competitions/{competitionID}/group-phase/advance", guard(handler.AdvanceGroupPhase))
	rr.handle("POST /v1/matches/{matchID}/start", guard(handler.StartMatch))
	rr.handle("POST /v1/matches/{matchID}/finish", guard(handler.FinishMatch))
	rr.handle("POST /v1/matches/{matchID}/score", guard(handler.RegisterScore))
	rr.handle("PUT /v1/matches/{matchID}/score", guard(handler.SetScore))
}
