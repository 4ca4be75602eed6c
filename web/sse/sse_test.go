package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SandroNardi/wireless-client-graph/config"
	"github.com/SandroNardi/wireless-client-graph/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSE_Logs(t *testing.T) {
	buffer := log.NewBuffer()
	buffer.Append("first entry")

	srv := NewServer(buffer, nil, &config.SseConfig{Enabled: true, HeartBeatInterval: 1}, log.NewNullLogger())
	defer srv.Close()
	httpSrv := httptest.NewServer(http.HandlerFunc(srv.Logs))
	defer httpSrv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, httpSrv.URL, http.NoBody)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	assert.Equal(t, "data: first entry", readEvent(t, reader))

	buffer.Append("second entry")
	assert.Equal(t, "data: second entry", readEvent(t, reader))
}

func TestSSE_Heartbeat(t *testing.T) {
	buffer := log.NewBuffer()

	srv := NewServer(buffer, nil, &config.SseConfig{Enabled: true, HeartBeatInterval: 1}, log.NewNullLogger())
	defer srv.Close()
	httpSrv := httptest.NewServer(http.HandlerFunc(srv.Logs))
	defer httpSrv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, httpSrv.URL, http.NoBody)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, ": heartbeat") {
			return
		}
	}
}

func TestSSE_Close(t *testing.T) {
	buffer := log.NewBuffer()

	srv := NewServer(buffer, nil, &config.SseConfig{Enabled: true, HeartBeatInterval: 60}, log.NewNullLogger())
	httpSrv := httptest.NewServer(http.HandlerFunc(srv.Logs))
	defer httpSrv.Close()

	resp, err := http.Get(httpSrv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	srv.Close()

	reader := bufio.NewReader(resp.Body)
	_, err = reader.ReadString(0)
	assert.Error(t, err)
}

func readEvent(t *testing.T, r *bufio.Reader) string {
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		return line
	}
}
