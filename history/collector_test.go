package history

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SandroNardi/wireless-client-graph/cache"
	"github.com/SandroNardi/wireless-client-graph/config"
	"github.com/SandroNardi/wireless-client-graph/log"
	"github.com/SandroNardi/wireless-client-graph/meraki"
	"github.com/SandroNardi/wireless-client-graph/model"
	"github.com/SandroNardi/wireless-client-graph/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Collect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/networks/n-bad/") {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors":["Network not found"]}`))
			return
		}
		_, _ = w.Write([]byte(`[{"startTs":"2026-03-01T00:00:00Z","endTs":"2026-03-01T01:00:00Z","clientCount":7}]`))
	}))
	t.Cleanup(srv.Close)

	conf := &config.MerakiConfig{BaseUrl: srv.URL}
	client := meraki.NewClient(conf, nil, log.NewNullLogger())
	wrapper := meraki.NewWrapper(conf, client, cache.NewInMemory(), status.NewNullReporter(), log.NewNullLogger())
	require.NoError(t, wrapper.SetApiKey("key"))

	collector := NewCollector(wrapper, log.NewNullLogger())
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	window := model.Window{Start: start, End: start.Add(24 * time.Hour)}

	networks := []model.Network{
		{Id: "n1", Name: "Office"},
		{Id: "n-bad", Name: "Broken"},
		{Id: "n2", Name: "Store"},
	}
	result := collector.Collect(context.Background(), networks, window)

	require.Len(t, result, 3)
	assert.Equal(t, "Office", result["n1"].Name)
	require.Len(t, result["n1"].History, 1)
	assert.Equal(t, 7, *result["n1"].History[0].ClientCount)

	assert.Equal(t, "Broken", result["n-bad"].Name)
	assert.Empty(t, result["n-bad"].History)
	assert.NotNil(t, result["n-bad"].History)

	require.Len(t, result["n2"].History, 1)
}

func TestCollector_Collect_Empty(t *testing.T) {
	conf := &config.MerakiConfig{BaseUrl: "http://localhost:1"}
	client := meraki.NewClient(conf, nil, log.NewNullLogger())
	wrapper := meraki.NewWrapper(conf, client, cache.NewInMemory(), status.NewNullReporter(), log.NewNullLogger())
	collector := NewCollector(wrapper, log.NewNullLogger())

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	result := collector.Collect(context.Background(), nil, model.Window{Start: start, End: start.Add(time.Hour)})
	assert.Empty(t, result)
}
