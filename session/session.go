package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SandroNardi/wireless-client-graph/cache"
	"github.com/SandroNardi/wireless-client-graph/config"
	"github.com/SandroNardi/wireless-client-graph/log"
	"github.com/SandroNardi/wireless-client-graph/meraki"
	"github.com/SandroNardi/wireless-client-graph/status"
	"github.com/SandroNardi/wireless-client-graph/wizard"
	"github.com/puzpuzpuz/xsync/v3"
)

// CookieName keys the browser session on the dashboard.
const CookieName = "wcg_session"

const (
	defaultTtl      = 2 * time.Hour
	cleanupInterval = 1 * time.Minute
)

// Session is one browser's setup state. The embedded mutex serializes
// the session's requests; the UI drives one action at a time.
type Session struct {
	sync.Mutex

	Wrapper *meraki.Wrapper
	Wizard  *wizard.Wizard

	id         string
	lastAccess atomic.Int64
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) touch() {
	s.lastAccess.Store(time.Now().UnixNano())
}

// Manager owns the per-browser sessions. Idle sessions are removed by a
// cleanup ticker.
type Manager struct {
	conf       *config.MerakiConfig
	client     *meraki.Client
	cacheStore cache.External
	reporter   status.Reporter
	log        log.Logger
	sessions   *xsync.MapOf[string, *Session]
	ttl        time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

func NewManager(conf *config.MerakiConfig, client *meraki.Client, cacheStore cache.External, reporter status.Reporter, log log.Logger) *Manager {
	m := &Manager{
		conf:       conf,
		client:     client,
		cacheStore: cacheStore,
		reporter:   reporter,
		log:        log.WithPrefix("session"),
		sessions:   xsync.NewMapOf[string, *Session](),
		ttl:        defaultTtl,
		stop:       make(chan struct{}),
	}
	go m.runCleanup()
	return m
}

// Create builds a fresh session and pre-seeds it from the configured
// values. A failed bootstrap leaves the session at the failed step.
func (m *Manager) Create(ctx context.Context) *Session {
	wrapper := meraki.NewWrapper(m.conf, m.client, m.cacheStore, m.reporter, m.log)
	s := &Session{
		id:      newSessionId(),
		Wrapper: wrapper,
		Wizard:  wizard.New(wrapper, m.log),
	}
	s.touch()
	if err := s.Wizard.Bootstrap(ctx, m.conf); err != nil {
		m.log.Warnf("session %s: setup from preconfigured values failed: %s", s.id, err)
	}
	m.sessions.Store(s.id, s)
	m.log.Debugf("session created: %s", s.id)
	return s
}

func (m *Manager) Get(id string) (*Session, bool) {
	s, ok := m.sessions.Load(id)
	if ok {
		s.touch()
	}
	return s, ok
}

// FromRequest resolves the request's session cookie, creating a new
// session (and setting the cookie) when none matches.
func (m *Manager) FromRequest(w http.ResponseWriter, r *http.Request) *Session {
	if cookie, err := r.Cookie(CookieName); err == nil {
		if s, ok := m.Get(cookie.Value); ok {
			return s
		}
	}
	s := m.Create(r.Context())
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.Id(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

func (m *Manager) Count() int {
	return m.sessions.Size()
}

func (m *Manager) Close() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
	m.log.Reportf("shutdown complete")
}

func (m *Manager) runCleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.cleanupExpired()
		}
	}
}

func (m *Manager) cleanupExpired() {
	deadline := time.Now().Add(-m.ttl).UnixNano()
	m.sessions.Range(func(id string, s *Session) bool {
		if s.lastAccess.Load() < deadline {
			m.sessions.Delete(id)
			m.log.Debugf("session expired: %s", id)
		}
		return true
	})
}

func newSessionId() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
