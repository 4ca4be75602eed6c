package config

import (
	"encoding/json"
	"os"
	"strconv"
)

var envPrefix = "WCG"

// Legacy variables honored for compatibility with existing deployments.
const (
	legacyApiKeyEnv = "MK_CSM_KEY"
	legacyOrgEnv    = "MK_MAIN_ORG"
)

var toInt = func(s string) (int, error) { return strconv.Atoi(s) }
var toBool = func(s string) (bool, error) { return strconv.ParseBool(s) }
var toFloat = func(s string) (float64, error) { return strconv.ParseFloat(s, 64) }
var toStringSlice = func(s string) ([]string, error) {
	var r []string
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return nil, err
	}
	return r, nil
}
var toCertConfigSlice = func(s string) ([]CertConfig, error) {
	var r []CertConfig
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return nil, err
	}
	return r, nil
}
var toStringMap = func(s string) (map[string]string, error) {
	var r map[string]string
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return nil, err
	}
	return r, nil
}

func (c *Config) loadEnv() {
	c.Meraki.loadEnv(envPrefix)
	c.Cache.loadEnv(envPrefix)
	c.Http.loadEnv(envPrefix)
	c.Tls.loadEnv(envPrefix)
	c.Diag.loadEnv(envPrefix)
	c.Log.loadEnv(envPrefix)
}

func (m *MerakiConfig) loadEnv(prefix string) {
	prefix = concatPrefix(prefix, "MERAKI")
	readEnvString(prefix, "API_KEY", &m.ApiKey)
	readEnvString(prefix, "ORGANIZATION_ID", &m.OrganizationId)
	readEnvString(prefix, "NETWORK_ID", &m.NetworkId)
	readEnvString(prefix, "BASE_URL", &m.BaseUrl)
	readEnv(prefix, "CACHE_ENABLED", &m.CacheEnabled, toBool)
	m.Required.loadEnv(prefix)
	m.Log.loadEnv(prefix)

	if m.ApiKey == "" {
		m.ApiKey = os.Getenv(legacyApiKeyEnv)
	}
	if m.OrganizationId == "" {
		m.OrganizationId = os.Getenv(legacyOrgEnv)
	}
}

func (r *RequiredConfig) loadEnv(prefix string) {
	prefix = concatPrefix(prefix, "REQUIRED")
	readEnv(prefix, "API_KEY", &r.ApiKey, toBool)
	readEnv(prefix, "ORGANIZATION_ID", &r.OrganizationId, toBool)
	readEnv(prefix, "NETWORK_ID", &r.NetworkId, toBool)
}

func (h *HttpConfig) loadEnv(prefix string) {
	prefix = concatPrefix(prefix, "HTTP")
	readEnv(prefix, "PORT", &h.Port, toInt)
	h.Log.loadEnv(prefix)
	h.Sse.loadEnv(prefix)
	h.Api.loadEnv(prefix)
	h.Ui.loadEnv(prefix)
}

func (c *CacheConfig) loadEnv(prefix string) {
	prefix = concatPrefix(prefix, "CACHE")
	c.Redis.loadEnv(prefix)
	c.MongoDb.loadEnv(prefix)
	c.DynamoDb.loadEnv(prefix)
}

func (r *RedisConfig) loadEnv(prefix string) {
	prefix = concatPrefix(prefix, "REDIS")
	readEnvString(prefix, "USER", &r.User)
	readEnvString(prefix, "PASSWORD", &r.Password)
	readEnv(prefix, "DB", &r.DB, toInt)
	readEnv(prefix, "ENABLED", &r.Enabled, toBool)
	readEnv(prefix, "ADDRESSES", &r.Addresses, toStringSlice)
	r.Tls.loadEnv(prefix)
}

func (m *MongoDbConfig) loadEnv(prefix string) {
	prefix = concatPrefix(prefix, "MONGODB")
	readEnv(prefix, "ENABLED", &m.Enabled, toBool)
	readEnvString(prefix, "URL", &m.Url)
	readEnvString(prefix, "DATABASE", &m.Database)
	readEnvString(prefix, "COLLECTION", &m.Collection)
	m.Tls.loadEnv(prefix)
}

func (d *DynamoDbConfig) loadEnv(prefix string) {
	prefix = concatPrefix(prefix, "DYNAMODB")
	readEnv(prefix, "ENABLED", &d.Enabled, toBool)
	readEnvString(prefix, "URL", &d.Url)
	readEnvString(prefix, "TABLE", &d.Table)
}

func (s *SseConfig) loadEnv(prefix string) {
	prefix = concatPrefix(prefix, "SSE")
	readEnv(prefix, "ENABLED", &s.Enabled, toBool)
	readEnv(prefix, "ALLOW_CORS", &s.AllowCORS, toBool)
	readEnv(prefix, "HEADERS", &s.Headers, toStringMap)
	readEnv(prefix, "HEARTBEAT_INTERVAL", &s.HeartBeatInterval, toInt)
	s.Log.loadEnv(prefix)
}

func (a *ApiConfig) loadEnv(prefix string) {
	prefix = concatPrefix(prefix, "API")
	readEnv(prefix, "ENABLED", &a.Enabled, toBool)
	readEnv(prefix, "ALLOW_CORS", &a.AllowCORS, toBool)
	readEnv(prefix, "HEADERS", &a.Headers, toStringMap)
	readEnv(prefix, "AUTH_HEADERS", &a.AuthHeaders, toStringMap)
}

func (u *UiConfig) loadEnv(prefix string) {
	prefix = concatPrefix(prefix, "UI")
	readEnv(prefix, "ENABLED", &u.Enabled, toBool)
}

func (d *DiagConfig) loadEnv(prefix string) {
	prefix = concatPrefix(prefix, "DIAG")
	readEnv(prefix, "ENABLED", &d.Enabled, toBool)
	readEnv(prefix, "PORT", &d.Port, toInt)
	readEnv(concatPrefix(prefix, "STATUS"), "ENABLED", &d.Status.Enabled, toBool)
	readEnv(concatPrefix(prefix, "METRICS"), "ENABLED", &d.Metrics.Enabled, toBool)
}

func (t *TlsConfig) loadEnv(prefix string) {
	prefix = concatPrefix(prefix, "TLS")
	readEnvString(prefix, "SERVER_NAME", &t.ServerName)
	readEnv(prefix, "MIN_VERSION", &t.MinVersion, toFloat)
	readEnv(prefix, "ENABLED", &t.Enabled, toBool)
	readEnv(prefix, "CERTIFICATES", &t.Certificates, toCertConfigSlice)
}

func (l *LogConfig) loadEnv(prefix string) {
	prefix = concatPrefix(prefix, "LOG")
	readEnvString(prefix, "LEVEL", &l.Level)
	readEnvString(prefix, "FILE_PATH", &l.FilePath)
}

func readEnv[T any](prefix string, key string, in *T, conv func(string) (T, error)) {
	if env := os.Getenv(prefix + "_" + key); env != "" {
		if r, err := conv(env); err == nil {
			*in = r
		}
	}
}

func readEnvString(prefix string, key string, in *string) {
	if env := os.Getenv(prefix + "_" + key); env != "" {
		*in = env
	}
}

func concatPrefix(p1 string, p2 string) string {
	return p1 + "_" + p2
}
