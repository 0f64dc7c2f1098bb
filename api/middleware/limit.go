package middleware

import (
	"net/http"

	"github.com/prasetyowira/shortlink/api/response"
	"github.com/prasetyowira/shortlink/constant"
	"github.com/prasetyowira/shortlink/infrastructure/logger"
	"golang.org/x/sync/semaphore"
)

// ConcurrencyLimit caps in-flight requests at limit. Requests over the cap
// are shed immediately with 503 instead of being queued.
func ConcurrencyLimit(limit int64, log *logger.Logger, rec Recorder) func(http.Handler) http.Handler {
	sem := semaphore.NewWeighted(limit)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sem.TryAcquire(1) {
				rec.IncShed()
				log.Warn(r.Context(), "Concurrency limit reached, shedding request", logger.LoggerInfo{
					ContextFunction: constant.CtxLoadShed,
					Error: &logger.CustomError{
						Code:    constant.ErrCodeAPIOverloaded,
						Message: constant.MsgOverloaded,
						Type:    constant.ErrTypeAPI,
					},
					Data: map[string]interface{}{
						constant.DataLimit:  limit,
						constant.DataMethod: r.Method,
						constant.DataPath:   r.URL.Path,
					},
				})
				response.WriteError(w, constant.MsgOverloaded, http.StatusServiceUnavailable)
				return
			}
			defer sem.Release(1)

			next.ServeHTTP(w, r)
		})
	}
}
