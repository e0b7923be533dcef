package httpapi

import (
	"net/http"

	"github.com/riskibarqy/tournament-engine/internal/platform/logging"
	"github.com/riskibarqy/tournament-engine/internal/platform/metrics"
)

type RouterOptions struct {
	Logger             *logging.Logger
	Metrics            *metrics.Recorder
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	InternalAPIToken   string
}

func NewRouter(handler *Handler, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}

	rr := routeRegistrar{mux: http.NewServeMux(), recorder: opts.Metrics}
	registerSystemRoutes(rr, handler, opts.Metrics, opts.SwaggerEnabled)
	registerReadRoutes(rr, handler)
	registerEngineRoutes(rr, handler, opts.InternalAPIToken)

	return RequestTracing(RequestLogging(logger, CORS(opts.CORSAllowedOrigins, recoverPanic(logger, rr.mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.ErrorContext(r.Context(), "panic recovered", "panic", rec, "path", r.URL.Path)
			writeInternalError(r.Context(), w)
		}()
		next.ServeHTTP(w, r)
	})
}
