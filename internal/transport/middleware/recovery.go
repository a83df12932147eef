package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/heartmarshall/taskboard-backend/pkg/ctxutil"
)

// Recovery turns a panicking handler into the generic action failure
// {"error":"Something went wrong"} with status 500. The panic is logged with
// its stack, the request ID and the caller's organization. http.ErrAbortHandler
// is re-raised so net/http can drop the connection quietly.
func Recovery(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if err, ok := p.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(p)
				}

				attrs := []slog.Attr{
					slog.Any("panic", p),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("request_id", ctxutil.RequestIDFromCtx(r.Context())),
				}
				if id, ok := ctxutil.IdentityFromCtx(r.Context()); ok {
					attrs = append(attrs, slog.String("org_id", id.OrgID))
				}
				logger.LogAttrs(r.Context(), slog.LevelError, "panic recovered", attrs...)

				if rw, ok := w.(*responseRecorder); ok && rw.wroteHeader {
					return
				}
				writeError(w, http.StatusInternalServerError, "Something went wrong")
			}()
			next.ServeHTTP(w, r)
		})
	}
}
