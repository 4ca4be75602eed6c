package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/SandroNardi/wireless-client-graph/config"
	"github.com/SandroNardi/wireless-client-graph/export"
	"github.com/SandroNardi/wireless-client-graph/history"
	"github.com/SandroNardi/wireless-client-graph/log"
	"github.com/SandroNardi/wireless-client-graph/meraki"
	"github.com/SandroNardi/wireless-client-graph/model"
	"github.com/SandroNardi/wireless-client-graph/session"
	"github.com/SandroNardi/wireless-client-graph/wizard"
)

// datetime-local inputs send minutes precision without a zone
const localTimeFormat = "2006-01-02T15:04"

type stateResponse struct {
	Step     wizard.Step           `json:"step"`
	Params   meraki.Params         `json:"params"`
	Required meraki.RequiredParams `json:"required"`
}

type keyRequest struct {
	ApiKey string `json:"api_key"`
}

type organizationRequest struct {
	OrganizationId string `json:"organization_id"`
}

type networkRequest struct {
	NetworkId string `json:"network_id"`
}

type historyRequest struct {
	Start        string   `json:"start"`
	End          string   `json:"end"`
	Tags         []string `json:"tags"`
	ProductTypes []string `json:"product_types"`
}

type logsResponse struct {
	Entries []string `json:"entries"`
	Next    int      `json:"next"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server hosts the dashboard's JSON API. Every handler resolves the
// caller's session and serializes access to it.
type Server struct {
	sessions *session.Manager
	buffer   *log.Buffer
	config   *config.ApiConfig
	logger   log.Logger
}

func NewServer(sessions *session.Manager, buffer *log.Buffer, config *config.ApiConfig, logger log.Logger) *Server {
	return &Server{
		sessions: sessions,
		buffer:   buffer,
		config:   config,
		logger:   logger.WithPrefix("api"),
	}
}

// State reports the setup progress and the (masked) session parameters.
func (s *Server) State(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.FromRequest(w, r)
	sess.Lock()
	defer sess.Unlock()

	s.writeState(w, sess)
}

func (s *Server) SetApiKey(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.FromRequest(w, r)
	sess.Lock()
	defer sess.Unlock()

	var req keyRequest
	if !s.readJson(w, r, &req) {
		return
	}
	if err := sess.Wizard.SubmitApiKey(req.ApiKey); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeState(w, sess)
}

func (s *Server) Organizations(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.FromRequest(w, r)
	sess.Lock()
	defer sess.Unlock()

	refresh := r.URL.Query().Get("refresh") == "true"
	orgs, err := sess.Wrapper.ListOrganizations(r.Context(), !refresh)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJson(w, orgs)
}

func (s *Server) SetOrganization(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.FromRequest(w, r)
	sess.Lock()
	defer sess.Unlock()

	var req organizationRequest
	if !s.readJson(w, r, &req) {
		return
	}
	if err := sess.Wizard.SubmitOrganization(r.Context(), req.OrganizationId); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeState(w, sess)
}

func (s *Server) Networks(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.FromRequest(w, r)
	sess.Lock()
	defer sess.Unlock()

	query := r.URL.Query()
	refresh := query.Get("refresh") == "true"
	networks, err := sess.Wrapper.ListNetworks(r.Context(), !refresh, query["tags"], query["product_types"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJson(w, networks)
}

func (s *Server) SetNetwork(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.FromRequest(w, r)
	sess.Lock()
	defer sess.Unlock()

	var req networkRequest
	if !s.readJson(w, r, &req) {
		return
	}
	if err := sess.Wizard.SubmitNetwork(r.Context(), req.NetworkId); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeState(w, sess)
}

// History validates the requested window, then collects the wireless
// client counts of every matching network. Networks that fail to answer
// contribute an empty history.
func (s *Server) History(w http.ResponseWriter, r *http.Request) {
	histories, ok := s.collectHistory(w, r)
	if !ok {
		return
	}
	s.writeJson(w, histories)
}

// HistoryCSV is the chart table download.
func (s *Server) HistoryCSV(w http.ResponseWriter, r *http.Request) {
	histories, ok := s.collectHistory(w, r)
	if !ok {
		return
	}
	data, err := export.HistoryCSV(histories)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeCSV(w, "client_count_history.csv", data)
}

// Logs serves the in-memory log entries appended at or after the given
// cursor, along with the next cursor value.
func (s *Server) Logs(w http.ResponseWriter, r *http.Request) {
	from := 0
	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			s.writeStatusError(w, http.StatusBadRequest, errors.New("'from' must be an integer"))
			return
		}
		from = parsed
	}
	entries, next := s.buffer.EntriesSince(from)
	if entries == nil {
		entries = []string{}
	}
	s.writeJson(w, logsResponse{Entries: entries, Next: next})
}

func (s *Server) LogsCSV(w http.ResponseWriter, r *http.Request) {
	data, err := export.LogsCSV(s.buffer.Entries())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeCSV(w, "logs.csv", data)
}

func (s *Server) collectHistory(w http.ResponseWriter, r *http.Request) (map[string]model.NetworkHistory, bool) {
	sess := s.sessions.FromRequest(w, r)
	sess.Lock()
	defer sess.Unlock()

	var req historyRequest
	if !s.readJson(w, r, &req) {
		return nil, false
	}
	window, err := parseWindow(&req)
	if err != nil {
		s.writeStatusError(w, http.StatusBadRequest, err)
		return nil, false
	}
	if err = window.Validate(time.Now()); err != nil {
		s.writeStatusError(w, http.StatusBadRequest, err)
		return nil, false
	}
	productTypes := req.ProductTypes
	if len(productTypes) == 0 {
		productTypes = []string{"wireless"}
	}
	networks, err := sess.Wrapper.ListNetworks(r.Context(), true, req.Tags, productTypes)
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	collector := history.NewCollector(sess.Wrapper, s.logger)
	return collector.Collect(r.Context(), networks, window), true
}

func parseWindow(req *historyRequest) (model.Window, error) {
	start, err := parseTime(req.Start)
	if err != nil {
		return model.Window{}, errors.New("invalid start date")
	}
	end, err := parseTime(req.End)
	if err != nil {
		return model.Window{}, errors.New("invalid end date")
	}
	return model.Window{Start: start, End: end}, nil
}

func parseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse(localTimeFormat, value)
}

func (s *Server) writeState(w http.ResponseWriter, sess *session.Session) {
	s.writeJson(w, stateResponse{
		Step:     sess.Wizard.Current(),
		Params:   sess.Wrapper.CurrentParams(),
		Required: sess.Wrapper.Required(),
	})
}

func (s *Server) readJson(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		s.writeStatusError(w, http.StatusBadRequest, errors.New("failed to parse JSON body"))
		return false
	}
	return true
}

func (s *Server) writeJson(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.writeStatusError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var merr *meraki.Error
	if !errors.As(err, &merr) && !isSetupError(err) {
		err = meraki.NewInternalError(err)
	}
	s.writeStatusError(w, errorStatus(err), err)
}

func (s *Server) writeStatusError(w http.ResponseWriter, code int, err error) {
	if code >= http.StatusInternalServerError {
		s.logger.Errorf("%s", err)
	} else {
		s.logger.Warnf("%s", err)
	}
	data, _ := json.Marshal(errorResponse{Error: err.Error()})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

func errorStatus(err error) int {
	var merr *meraki.Error
	if errors.As(err, &merr) {
		switch merr.Kind {
		case meraki.NotConfigured:
			return http.StatusBadRequest
		case meraki.Upstream:
			if merr.StatusCode == http.StatusUnauthorized || merr.StatusCode == http.StatusForbidden || merr.StatusCode == http.StatusNotFound {
				return merr.StatusCode
			}
			return http.StatusBadGateway
		default:
			return http.StatusInternalServerError
		}
	}
	if isSetupError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func isSetupError(err error) bool {
	return errors.Is(err, wizard.ErrUnknownOrganization) ||
		errors.Is(err, wizard.ErrUnknownNetwork) ||
		errors.Is(err, wizard.ErrNoOrganizations) ||
		errors.Is(err, wizard.ErrNoNetworks)
}

func writeCSV(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	_, _ = w.Write(data)
}
