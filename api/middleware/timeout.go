package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prasetyowira/shortlink/api/response"
	"github.com/prasetyowira/shortlink/constant"
	"github.com/prasetyowira/shortlink/infrastructure/logger"
)

// Timeout gives the handler a deadline of d. The handler runs on the serving
// goroutine and writes into a buffer; the buffer reaches the client only if
// the handler returns before the deadline. Otherwise the client receives 408
// and writes made after the deadline fail with errHandlerTimeout.
//
// Handlers must honour the request context for the deadline to cut work
// short; the request (and its concurrency slot) ends when the handler returns.
func Timeout(d time.Duration, log *logger.Logger, rec Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			tw := &timeoutWriter{ctx: ctx, header: make(http.Header)}
			next.ServeHTTP(tw, r.WithContext(ctx))

			if err := ctx.Err(); err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					rec.IncTimeout()
					log.Warn(ctx, "Request timed out", logger.LoggerInfo{
						ContextFunction: constant.CtxTimeout,
						Error: &logger.CustomError{
							Code:    constant.ErrCodeAPITimeout,
							Message: err.Error(),
							Type:    constant.ErrTypeAPI,
						},
						Data: map[string]interface{}{
							constant.DataTimeout: d.String(),
							constant.DataMethod:  r.Method,
							constant.DataPath:    r.URL.Path,
						},
					})
				}
				response.WriteError(w, constant.MsgRequestTimedOut, http.StatusRequestTimeout)
				return
			}

			dst := w.Header()
			for k, vv := range tw.header {
				dst[k] = vv
			}
			if tw.code == 0 {
				tw.code = http.StatusOK
			}
			w.WriteHeader(tw.code)
			_, _ = w.Write(tw.buf.Bytes())
		})
	}
}

// errHandlerTimeout is returned to handler writes after the deadline.
var errHandlerTimeout = errors.New("http: handler timed out")

// timeoutWriter buffers the response until the handler returns.
type timeoutWriter struct {
	ctx    context.Context
	header http.Header
	buf    bytes.Buffer
	code   int
}

func (tw *timeoutWriter) Header() http.Header { return tw.header }

func (tw *timeoutWriter) Write(p []byte) (int, error) {
	if tw.ctx.Err() != nil {
		return 0, errHandlerTimeout
	}
	if tw.code == 0 {
		tw.code = http.StatusOK
	}
	return tw.buf.Write(p)
}

func (tw *timeoutWriter) WriteHeader(code int) {
	if tw.ctx.Err() != nil || tw.code != 0 {
		return
	}
	tw.code = code
}
