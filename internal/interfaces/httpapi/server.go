package httpapi

import (
	"net/http"

	"github.com/riskibarqy/league-sheets/internal/platform/id"
	"github.com/riskibarqy/league-sheets/internal/platform/logging"
)

type RouterOptions struct {
	// MetricsHandler serves GET /metrics when set.
	MetricsHandler     http.Handler
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	RequestIDs         id.Generator
}

func NewRouter(handler *Handler, logger *logging.Logger, opts RouterOptions) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if opts.RequestIDs == nil {
		opts.RequestIDs = id.NewRandomGenerator(0)
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, opts.MetricsHandler, opts.SwaggerEnabled)
	registerLeagueRoutes(mux, handler)

	return RequestTracing(RequestID(opts.RequestIDs, RequestLogging(logger, CORS(opts.CORSAllowedOrigins, recoverPanic(logger, mux)))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "http_path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
