package mware

import (
	"net/http"

	"github.com/SandroNardi/wireless-client-graph/log"
)

func HeaderAuth(authHeaders map[string]string, logger log.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for k, v := range authHeaders {
			h := r.Header.Get(k)
			if h != v {
				logger.Debugf("auth header (%s) validation failed", k)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}
