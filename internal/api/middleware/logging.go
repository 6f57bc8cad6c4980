package middleware

import (
	"net/http"
	"runtime/debug"
	"time"
)

// AccessLog пишет в лог метод, путь, статус и длительность каждого запроса
// Ответы 5xx логируются как ошибки, 4xx как предупреждения
func AccessLog(log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrapResponseWriter(w)

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			requestID := GetRequestID(r.Context())

			switch {
			case rw.status >= http.StatusInternalServerError:
				log.Error("%s %s - %d (%s) request_id=%s", r.Method, r.URL.Path, rw.status, duration, requestID)
			case rw.status >= http.StatusBadRequest:
				log.Warn("%s %s - %d (%s) request_id=%s", r.Method, r.URL.Path, rw.status, duration, requestID)
			default:
				log.Info("%s %s - %d (%s) request_id=%s", r.Method, r.URL.Path, rw.status, duration, requestID)
			}
		})
	}
}

// Recover перехватывает панику в обработчике и отвечает 500
func Recover(log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("%s %s - panic: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
