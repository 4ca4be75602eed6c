package mware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	t.Run("* origin, options", func(t *testing.T) {
		handler := CORS([]string{http.MethodGet, http.MethodOptions}, nil, func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
		})
		srv := httptest.NewServer(handler)
		client := http.Client{}

		req, _ := http.NewRequest(http.MethodOptions, srv.URL, http.NoBody)
		resp, _ := client.Do(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "GET,OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "false", resp.Header.Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "Cache-Control,Content-Type,Content-Length,Accept-Encoding", resp.Header.Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "600", resp.Header.Get("Access-Control-Max-Age"))
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Content-Length,Content-Disposition,Date,Content-Encoding", resp.Header.Get("Access-Control-Expose-Headers"))
	})
	t.Run("request origin echoed, options", func(t *testing.T) {
		handler := CORS([]string{http.MethodGet, http.MethodOptions}, nil, func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
		})
		srv := httptest.NewServer(handler)
		client := http.Client{}

		req, _ := http.NewRequest(http.MethodOptions, srv.URL, http.NoBody)
		req.Header.Set("Origin", "http://localhost")
		resp, _ := client.Do(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "http://localhost", resp.Header.Get("Access-Control-Allow-Origin"))
	})
	t.Run("extra headers, options", func(t *testing.T) {
		handler := CORS([]string{http.MethodPost, http.MethodOptions}, []string{"X-AUTH"}, func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
		})
		srv := httptest.NewServer(handler)
		client := http.Client{}

		req, _ := http.NewRequest(http.MethodOptions, srv.URL, http.NoBody)
		resp, _ := client.Do(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "POST,OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Cache-Control,Content-Type,Content-Length,Accept-Encoding,X-AUTH", resp.Header.Get("Access-Control-Allow-Headers"))
	})
	t.Run("get", func(t *testing.T) {
		handler := CORS([]string{http.MethodGet, http.MethodOptions}, nil, func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
		})
		srv := httptest.NewServer(handler)
		client := http.Client{}

		req, _ := http.NewRequest(http.MethodGet, srv.URL, http.NoBody)
		req.Header.Set("Origin", "http://localhost")
		resp, _ := client.Do(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "http://localhost", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Content-Length,Content-Disposition,Date,Content-Encoding", resp.Header.Get("Access-Control-Expose-Headers"))
		assert.Empty(t, resp.Header.Get("Access-Control-Allow-Methods"))
	})
}
