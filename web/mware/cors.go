package mware

import (
	"net/http"
	"strings"
)

var defaultAllowedHeaders = strings.Join([]string{
	"Cache-Control",
	"Content-Type",
	"Content-Length",
	"Accept-Encoding",
}, ",")

var defaultExposedHeaders = strings.Join([]string{
	"Content-Length",
	"Content-Disposition",
	"Date",
	"Content-Encoding",
}, ",")

const defaultAllowedOrigin = "*"

func CORS(allowedMethods []string, extraHeaders []string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if r.Method == http.MethodOptions {
			setOptionsCORSHeaders(w, origin, allowedMethods, extraHeaders)
		} else {
			setDefaultCORSHeaders(w, origin)
		}
		next(w, r)
	}
}

func setDefaultCORSHeaders(w http.ResponseWriter, requestOrigin string) {
	w.Header().Set("Access-Control-Allow-Origin", determineOrigin(requestOrigin))
	w.Header().Set("Access-Control-Expose-Headers", defaultExposedHeaders)
}

func setOptionsCORSHeaders(w http.ResponseWriter, requestOrigin string, allowedMethods []string, extraHeaders []string) {
	setDefaultCORSHeaders(w, requestOrigin)
	w.Header().Set("Access-Control-Allow-Credentials", "false")
	w.Header().Set("Access-Control-Max-Age", "600")
	allowedHeaders := defaultAllowedHeaders
	if len(extraHeaders) > 0 {
		allowedHeaders += "," + strings.Join(extraHeaders, ",")
	}
	w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
	if len(allowedMethods) > 0 {
		w.Header().Set("Access-Control-Allow-Methods", strings.Join(allowedMethods, ","))
	}
}

func determineOrigin(requestOrigin string) string {
	if requestOrigin != "" {
		return requestOrigin
	}
	return defaultAllowedOrigin
}
