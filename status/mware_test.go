package status

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SandroNardi/wireless-client-graph/config"
	"github.com/stretchr/testify/assert"
)

func TestInterceptUpstream(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		reporter := NewReporter(&config.Config{}).(*reporter)
		repSrv := httptest.NewServer(reporter.HttpHandler())
		h := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
		})
		srv := httptest.NewServer(h)
		client := http.Client{}
		client.Transport = InterceptUpstream(reporter, http.DefaultTransport)
		req, _ := http.NewRequest(http.MethodGet, srv.URL, http.NoBody)
		_, _ = client.Do(req)

		stat := readStatus(repSrv.URL)

		assert.Equal(t, Healthy, stat.Status)
		assert.Equal(t, Healthy, stat.Meraki.Status)
		assert.Equal(t, 1, len(stat.Meraki.Records))
		assert.Contains(t, stat.Meraki.Records[0], "request succeeded")
	})
	t.Run("error", func(t *testing.T) {
		reporter := NewReporter(&config.Config{}).(*reporter)
		repSrv := httptest.NewServer(reporter.HttpHandler())
		h := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusBadRequest)
		})
		srv := httptest.NewServer(h)
		client := http.Client{}
		client.Transport = InterceptUpstream(reporter, http.DefaultTransport)
		req, _ := http.NewRequest(http.MethodGet, srv.URL, http.NoBody)
		_, _ = client.Do(req)

		stat := readStatus(repSrv.URL)

		assert.Equal(t, Degraded, stat.Status)
		assert.Equal(t, Degraded, stat.Meraki.Status)
		assert.Equal(t, 1, len(stat.Meraki.Records))
		assert.Contains(t, stat.Meraki.Records[0], "unexpected response received: 400 Bad Request")
	})
	t.Run("transport failure", func(t *testing.T) {
		reporter := NewReporter(&config.Config{}).(*reporter)
		repSrv := httptest.NewServer(reporter.HttpHandler())
		client := http.Client{}
		client.Transport = InterceptUpstream(reporter, http.DefaultTransport)
		req, _ := http.NewRequest(http.MethodGet, "http://localhost:1", http.NoBody)
		_, _ = client.Do(req)

		stat := readStatus(repSrv.URL)

		assert.Equal(t, Degraded, stat.Status)
		assert.Equal(t, Degraded, stat.Meraki.Status)
		assert.Equal(t, 1, len(stat.Meraki.Records))
	})
}
