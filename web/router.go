package web

import (
	"net/http"

	"github.com/SandroNardi/wireless-client-graph/config"
	"github.com/SandroNardi/wireless-client-graph/internal/utils"
	"github.com/SandroNardi/wireless-client-graph/log"
	"github.com/SandroNardi/wireless-client-graph/metrics"
	"github.com/SandroNardi/wireless-client-graph/session"
	"github.com/SandroNardi/wireless-client-graph/web/api"
	"github.com/SandroNardi/wireless-client-graph/web/mware"
	"github.com/SandroNardi/wireless-client-graph/web/sse"
	"github.com/SandroNardi/wireless-client-graph/web/ui"
	"github.com/julienschmidt/httprouter"
)

type HttpRouter struct {
	router    *httprouter.Router
	sseServer *sse.Server
	apiServer *api.Server
	uiServer  *ui.Server
	metrics   metrics.Handler
}

type endpoint struct {
	handler http.HandlerFunc
	method  string
	path    string
}

func NewRouter(sessions *session.Manager, buffer *log.Buffer, metricsHandler metrics.Handler, conf *config.HttpConfig, log log.Logger) *HttpRouter {
	httpLog := log.WithLevel(conf.Log.GetLevel()).WithPrefix("http")

	r := &HttpRouter{
		router: &httprouter.Router{
			RedirectFixedPath:      true,
			RedirectTrailingSlash:  true,
			HandleMethodNotAllowed: true,
		},
		metrics: metricsHandler,
	}
	if conf.Sse.Enabled {
		r.setupSSERoutes(&conf.Sse, buffer, httpLog)
	}
	if conf.Api.Enabled {
		r.setupAPIRoutes(&conf.Api, sessions, buffer, httpLog)
	}
	if conf.Ui.Enabled {
		r.setupUIRoutes(httpLog)
	}
	return r
}

func (s *HttpRouter) Handler() http.Handler {
	return s.router
}

func (s *HttpRouter) Close() {
	if s.sseServer != nil {
		s.sseServer.Close()
	}
}

func (s *HttpRouter) setupSSERoutes(conf *config.SseConfig, buffer *log.Buffer, l log.Logger) {
	s.sseServer = sse.NewServer(buffer, s.metrics, conf, l)
	path := "/sse/logs"
	handler := mware.AutoOptions(s.sseServer.Logs)
	if len(conf.Headers) > 0 {
		handler = mware.ExtraHeaders(conf.Headers, handler)
	}
	if conf.AllowCORS {
		handler = mware.CORS([]string{http.MethodGet, http.MethodOptions}, utils.Keys(conf.Headers), handler)
	}
	if l.Level() == log.Debug {
		handler = mware.DebugLog(l, handler)
	}
	s.router.HandlerFunc(http.MethodGet, path, handler)
	s.router.HandlerFunc(http.MethodOptions, path, handler)
	l.Reportf("SSE enabled, accepting requests on path: %s", path)
}

func (s *HttpRouter) setupAPIRoutes(conf *config.ApiConfig, sessions *session.Manager, buffer *log.Buffer, l log.Logger) {
	s.apiServer = api.NewServer(sessions, buffer, conf, l)
	endpoints := []endpoint{
		{path: "/api/state", handler: mware.GZip(s.apiServer.State), method: http.MethodGet},
		{path: "/api/key", handler: http.HandlerFunc(s.apiServer.SetApiKey), method: http.MethodPost},
		{path: "/api/organizations", handler: mware.GZip(s.apiServer.Organizations), method: http.MethodGet},
		{path: "/api/organization", handler: http.HandlerFunc(s.apiServer.SetOrganization), method: http.MethodPost},
		{path: "/api/networks", handler: mware.GZip(s.apiServer.Networks), method: http.MethodGet},
		{path: "/api/network", handler: http.HandlerFunc(s.apiServer.SetNetwork), method: http.MethodPost},
		{path: "/api/history", handler: mware.GZip(s.apiServer.History), method: http.MethodPost},
		{path: "/api/history.csv", handler: http.HandlerFunc(s.apiServer.HistoryCSV), method: http.MethodPost},
		{path: "/api/logs", handler: mware.GZip(s.apiServer.Logs), method: http.MethodGet},
		{path: "/api/logs.csv", handler: http.HandlerFunc(s.apiServer.LogsCSV), method: http.MethodGet},
	}
	for _, endpoint := range endpoints {
		if len(conf.AuthHeaders) > 0 {
			endpoint.handler = mware.HeaderAuth(conf.AuthHeaders, l, endpoint.handler)
		}
		endpoint.handler = mware.AutoOptions(endpoint.handler)
		if len(conf.Headers) > 0 {
			endpoint.handler = mware.ExtraHeaders(conf.Headers, endpoint.handler)
		}
		if conf.AllowCORS {
			endpoint.handler = mware.CORS([]string{endpoint.method, http.MethodOptions}, append(utils.Keys(conf.Headers), utils.Keys(conf.AuthHeaders)...), endpoint.handler)
		}
		if s.metrics != nil {
			endpoint.handler = metrics.Measure(s.metrics, endpoint.handler)
		}
		if l.Level() == log.Debug {
			endpoint.handler = mware.DebugLog(l, endpoint.handler)
		}
		s.router.HandlerFunc(endpoint.method, endpoint.path, endpoint.handler)
		s.router.HandlerFunc(http.MethodOptions, endpoint.path, endpoint.handler)
	}
	l.Reportf("API enabled, accepting requests on path: /api/*")
}

func (s *HttpRouter) setupUIRoutes(l log.Logger) {
	s.uiServer = ui.NewServer(l)
	handler := mware.GZip(s.uiServer.Index)
	if s.metrics != nil {
		handler = metrics.Measure(s.metrics, handler)
	}
	if l.Level() == log.Debug {
		handler = mware.DebugLog(l, handler)
	}
	s.router.HandlerFunc(http.MethodGet, "/", handler)
	l.Reportf("UI enabled, accepting requests on path: /")
}
