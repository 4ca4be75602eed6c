package status

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/SandroNardi/wireless-client-graph/config"
	"github.com/SandroNardi/wireless-client-graph/internal/utils"
)

type HealthStatus string

const (
	Meraki = "meraki"
	Cache  = "cache"

	Healthy  HealthStatus = "healthy"
	Degraded HealthStatus = "degraded"
	NA       HealthStatus = "n/a"
)

const maxRecordCount = 5
const maxLastErrorsMeaningDegraded = 2

type Reporter interface {
	ReportOk(component string, message string)
	ReportError(component string, err error)

	HttpHandler() http.HandlerFunc
}

type Status struct {
	Status HealthStatus    `json:"status"`
	Meraki ComponentStatus `json:"meraki"`
	Cache  ComponentStatus `json:"cache"`
}

type ComponentStatus struct {
	Status  HealthStatus `json:"status"`
	Records []string     `json:"records"`
}

type record struct {
	time    time.Time
	isError bool
	message string
}

type reporter struct {
	records map[string][]record
	mu      sync.RWMutex
	status  Status
}

func NewNullReporter() Reporter {
	return &reporter{records: make(map[string][]record), status: Status{
		Status: Healthy,
		Meraki: ComponentStatus{Status: Healthy},
		Cache:  ComponentStatus{Status: NA},
	}}
}

func NewReporter(conf *config.Config) Reporter {
	r := &reporter{
		records: make(map[string][]record),
		status: Status{
			Status: Healthy,
			Meraki: ComponentStatus{
				Status: Healthy,
			},
			Cache: ComponentStatus{
				Status: Healthy,
			},
		},
	}
	if !conf.Cache.Redis.Enabled && !conf.Cache.MongoDb.Enabled && !conf.Cache.DynamoDb.Enabled {
		r.status.Cache.Status = NA
	}
	return r
}

func (r *reporter) ReportOk(component string, message string) {
	r.appendRecord(component, "[ok] "+message, false)
}

func (r *reporter) ReportError(component string, err error) {
	r.appendRecord(component, "[error] "+err.Error(), true)
}

func (r *reporter) HttpHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		status, err := json.Marshal(r.getStatus())
		if err != nil {
			http.Error(w, "Error producing status", http.StatusInternalServerError)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(status)
	}
}

func (r *reporter) getStatus() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	current := r.status
	overallStatus := Healthy
	if meraki, ok := r.records[Meraki]; ok {
		rec, stat := r.checkStatus(meraki)
		current.Meraki.Records = rec
		current.Meraki.Status = stat
		if stat == Degraded {
			overallStatus = Degraded
		}
	}
	if cache, ok := r.records[Cache]; ok {
		rec, stat := r.checkStatus(cache)
		current.Cache.Records = rec
		current.Cache.Status = stat
	}
	current.Status = overallStatus
	return current
}

func (r *reporter) checkStatus(records []record) ([]string, HealthStatus) {
	length := len(records)
	targetRecords := make([]string, length)
	var errorCount = 0
	for i, msg := range records {
		targetRecords[i] = msg.time.UTC().Format(time.RFC1123) + ": " + msg.message
		if i >= length-maxLastErrorsMeaningDegraded {
			if msg.isError {
				errorCount++
			} else {
				errorCount--
			}
		}
	}
	if errorCount > 0 && errorCount >= utils.Min(maxLastErrorsMeaningDegraded, length) {
		return targetRecords, Degraded
	}
	return targetRecords, Healthy
}

func (r *reporter) appendRecord(component string, message string, isError bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	recs, ok := r.records[component]
	if !ok {
		recs = make([]record, 0, maxRecordCount)
	}
	recs = append(recs, record{time: time.Now(), isError: isError, message: message})
	if len(recs) > maxRecordCount {
		recs = recs[1:]
	}
	r.records[component] = recs
}
