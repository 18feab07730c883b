package middleware

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

const requestIDHeader = "X-Request-ID"

func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requestID := r.Header.Get(requestIDHeader); requestID != "" {
				log.Tracef(" ====> request [%s] path: [%s] [req id: %s] [UA: %s]", r.Method, r.URL.Path, requestID, r.UserAgent())
			} else {
				log.Tracef(" ====> request [%s] path: [%s] [UA: %s]", r.Method, r.URL.Path, r.UserAgent())
			}
			next.ServeHTTP(w, r)
		})
	}
}
