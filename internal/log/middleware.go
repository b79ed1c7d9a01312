package log

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// RequestLogger writes one entry per request and stores a request scoped
// logger in the context, retrievable with zerolog.Ctx.
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			l := logger.With().Str(FieldRequestID, middleware.GetReqID(r.Context())).Logger()
			r = r.WithContext(l.WithContext(r.Context()))

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}

				event := l.Info()
				if status >= http.StatusInternalServerError {
					event = l.Error()
				}
				event.
					Str(FieldMethod, r.Method).
					Str(FieldPath, r.URL.Path).
					Int(FieldStatus, status).
					Int("bytes", ww.BytesWritten()).
					Dur(FieldDuration, time.Since(start)).
					Msg("http request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
