package middleware

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

// Tracing starts a server span per request named "METHOD /route/pattern".
// otelhttp renames the span through the formatter once the router has set
// r.Pattern; the explicit rename covers requests copied below this handler,
// whose pattern otelhttp never sees.
func Tracing() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		named := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			trace.SpanFromContext(r.Context()).SetName(spanName("", r))
		})
		return otelhttp.NewHandler(named, "http.request", otelhttp.WithSpanNameFormatter(spanName))
	}
}

func spanName(_ string, r *http.Request) string {
	return r.Method + " " + routePattern(r)
}
