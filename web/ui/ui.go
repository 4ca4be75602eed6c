package ui

import (
	"embed"
	"net/http"

	"github.com/SandroNardi/wireless-client-graph/log"
)

//go:embed index.html
var content embed.FS

// Server serves the embedded single-page dashboard.
type Server struct {
	logger log.Logger
	page   []byte
}

func NewServer(logger log.Logger) *Server {
	page, err := content.ReadFile("index.html")
	if err != nil {
		// embed guarantees the file exists; this is unreachable
		panic(err)
	}
	return &Server{logger: logger.WithPrefix("ui"), page: page}
}

func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(s.page)
}
