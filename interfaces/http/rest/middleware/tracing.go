package middleware

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"breathe-backend/pkg/observability"
)

// Tracing opens an X-Ray segment per request and annotates it with the route
func Tracing(tracer *observability.Tracer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, seg := tracer.StartSegment(r.Context(), "http")
			if seg == nil {
				next.ServeHTTP(w, r)
				return
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			r = r.WithContext(ctx)
			tracer.AddAnnotation(ctx, "method", r.Method)
			tracer.AddAnnotation(ctx, "path", r.URL.Path)

			next.ServeHTTP(ww, r)

			tracer.AddMetadata(ctx, "status", ww.Status())
			if ww.Status() >= http.StatusInternalServerError {
				tracer.RecordError(ctx, fmt.Errorf("%s %s returned %d", r.Method, r.URL.Path, ww.Status()))
			}
			seg.Close(nil)
		})
	}
}
