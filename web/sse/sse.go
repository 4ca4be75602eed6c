package sse

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/SandroNardi/wireless-client-graph/config"
	"github.com/SandroNardi/wireless-client-graph/log"
	"github.com/SandroNardi/wireless-client-graph/metrics"
)

const logsStreamType = "logs"

// Server streams the in-memory log to the dashboard's log panel. Each
// connection replays the buffered entries, then receives new ones as
// they are appended, with periodic heartbeats keeping proxies from
// closing the idle stream.
type Server struct {
	buffer     *log.Buffer
	metrics    metrics.Handler
	config     *config.SseConfig
	logger     log.Logger
	closed     chan struct{}
	closedOnce sync.Once
}

func NewServer(buffer *log.Buffer, metricsHandler metrics.Handler, conf *config.SseConfig, logger log.Logger) *Server {
	sseLog := logger.WithLevel(conf.Log.GetLevel()).WithPrefix("sse")
	return &Server{
		buffer:  buffer,
		metrics: metricsHandler,
		config:  conf,
		logger:  sseLog,
		closed:  make(chan struct{}),
	}
}

func (s *Server) Logs(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusNotImplemented)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Add("X-Accel-Buffering", "no")

	subscriberId := newSubscriberId()
	replay, feed := s.buffer.SubscribeWithReplay(subscriberId)
	defer s.buffer.Unsubscribe(subscriberId)

	if s.metrics != nil {
		s.metrics.IncrementConnection(logsStreamType)
		defer s.metrics.DecrementConnection(logsStreamType)
	}

	w.WriteHeader(http.StatusOK)
	for _, entry := range replay {
		_, _ = fmt.Fprintf(w, "data: %s\n\n", entry)
	}
	flusher.Flush()

	interval := s.config.HeartBeatInterval
	if interval <= 0 {
		interval = 2
	}
	heartbeat := time.NewTicker(time.Duration(interval) * time.Second)
	defer heartbeat.Stop()

	s.logger.Debugf("log stream opened: %s", subscriberId)
	for {
		select {
		case entry := <-feed:
			if _, err := fmt.Fprintf(w, "data: %s\n\n", entry); err != nil {
				s.logger.Errorf("%s", err)
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			s.logger.Debugf("log stream closed: %s", subscriberId)
			return
		case <-s.closed:
			return
		}
	}
}

func (s *Server) Close() {
	s.closedOnce.Do(func() {
		close(s.closed)
	})
}

func newSubscriberId() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
