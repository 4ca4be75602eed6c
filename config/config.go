package config

import (
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/SandroNardi/wireless-client-graph/log"
	"gopkg.in/yaml.v3"
)

var allowedLogLevels = map[string]log.Level{
	"debug": log.Debug,
	"info":  log.Info,
	"warn":  log.Warn,
	"error": log.Error,
}

var allowedTlsVersions = map[float64]uint16{
	1.0: tls.VersionTLS10,
	1.1: tls.VersionTLS11,
	1.2: tls.VersionTLS12,
	1.3: tls.VersionTLS13,
}

type Config struct {
	Log    LogConfig
	Meraki MerakiConfig
	Cache  CacheConfig
	Tls    TlsConfig
	Http   HttpConfig
	Diag   DiagConfig
}

type MerakiConfig struct {
	ApiKey         string `yaml:"api_key"`
	OrganizationId string `yaml:"organization_id"`
	NetworkId      string `yaml:"network_id"`
	BaseUrl        string `yaml:"base_url"`
	CacheEnabled   bool   `yaml:"cache_enabled"`
	Required       RequiredConfig
	Log            LogConfig
}

// RequiredConfig mirrors the setup wizard's required-parameter map.
type RequiredConfig struct {
	ApiKey         bool `yaml:"api_key"`
	OrganizationId bool `yaml:"organization_id"`
	NetworkId      bool `yaml:"network_id"`
}

type HttpConfig struct {
	Port int `yaml:"port"`
	Log  LogConfig
	Sse  SseConfig
	Api  ApiConfig
	Ui   UiConfig
}

type SseConfig struct {
	Enabled           bool              `yaml:"enabled"`
	Headers           map[string]string `yaml:"headers"`
	AllowCORS         bool              `yaml:"allow_cors"`
	HeartBeatInterval int               `yaml:"heart_beat_interval"`
	Log               LogConfig
}

type ApiConfig struct {
	AuthHeaders map[string]string `yaml:"auth_headers"`
	Headers     map[string]string `yaml:"headers"`
	Enabled     bool              `yaml:"enabled"`
	AllowCORS   bool              `yaml:"allow_cors"`
}

type UiConfig struct {
	Enabled bool `yaml:"enabled"`
}

type CacheConfig struct {
	Redis    RedisConfig
	MongoDb  MongoDbConfig  `yaml:"mongodb"`
	DynamoDb DynamoDbConfig `yaml:"dynamodb"`
}

type RedisConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Addresses []string `yaml:"addresses"`
	DB        int      `yaml:"db"`
	User      string   `yaml:"user"`
	Password  string   `yaml:"password"`
	Tls       TlsConfig
}

type MongoDbConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Url        string `yaml:"url"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
	Tls        TlsConfig
}

type DynamoDbConfig struct {
	Enabled bool   `yaml:"enabled"`
	Url     string `yaml:"url"`
	Table   string `yaml:"table"`
}

type DiagConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
	Status  StatusConfig
	Metrics MetricsConfig
}

type StatusConfig struct {
	Enabled bool `yaml:"enabled"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type LogConfig struct {
	Level    string `yaml:"level"`
	FilePath string `yaml:"file_path"`
}

type CertConfig struct {
	Key  string `yaml:"key"`
	Cert string `yaml:"cert"`
}

type TlsConfig struct {
	Enabled      bool    `yaml:"enabled"`
	MinVersion   float64 `yaml:"min_version"`
	ServerName   string  `yaml:"server_name"`
	Certificates []CertConfig
}

func LoadConfigFromFileAndEnvironment(filePath string) (Config, error) {
	var config Config
	config.setDefaults()

	if filePath != "" {
		_, err := os.Stat(filePath)
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config file %s does not exist: %s", filePath, err)
		}
		realPath, err := filepath.EvalSymlinks(filePath)
		if err != nil {
			return Config{}, fmt.Errorf("failed to eval symlink for %s: %s", realPath, err)
		}
		data, err := os.ReadFile(realPath)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %s", realPath, err)
		}

		err = yaml.Unmarshal(data, &config)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse YAML from config file %s: %s", realPath, err)
		}
	}

	config.loadEnv()
	if config.Log.GetLevel() == log.None {
		config.Log.Level = "warn"
	}
	config.fixupLogLevels(config.Log.Level)
	return config, nil
}

func (l *LogConfig) GetLevel() log.Level {
	if lvl, ok := allowedLogLevels[l.Level]; ok {
		return lvl
	}
	return log.None
}

func (t *TlsConfig) GetVersion() uint16 {
	if ver, ok := allowedTlsVersions[t.MinVersion]; ok {
		return ver
	}
	return tls.VersionTLS12
}

// LoadTlsOptions produces the client side TLS setup used by the cache
// backends.
func (t *TlsConfig) LoadTlsOptions() (*tls.Config, error) {
	conf := &tls.Config{
		MinVersion: t.GetVersion(),
		ServerName: t.ServerName,
	}
	for _, c := range t.Certificates {
		if cert, err := tls.LoadX509KeyPair(c.Cert, c.Key); err == nil {
			conf.Certificates = append(conf.Certificates, cert)
		} else {
			return nil, err
		}
	}
	return conf, nil
}

func (c *Config) setDefaults() {
	c.Http.Port = 8080

	c.Http.Sse.Enabled = true
	c.Http.Sse.AllowCORS = true
	c.Http.Sse.HeartBeatInterval = 2

	c.Http.Api.Enabled = true
	c.Http.Api.AllowCORS = true

	c.Http.Ui.Enabled = true

	c.Diag.Enabled = true
	c.Diag.Port = 8051
	c.Diag.Status.Enabled = true
	c.Diag.Metrics.Enabled = true

	c.Meraki.BaseUrl = "https://api.meraki.com/api/v1"
	c.Meraki.CacheEnabled = true
	c.Meraki.Required.ApiKey = true
	c.Meraki.Required.OrganizationId = true
	c.Meraki.Required.NetworkId = false

	c.Cache.Redis.DB = 0
	c.Cache.Redis.Addresses = []string{"localhost:6379"}
	c.Cache.MongoDb.Database = "wireless_client_graph"
	c.Cache.MongoDb.Collection = "cache"
	c.Cache.DynamoDb.Table = "wireless_client_graph_cache"
}

func (c *Config) fixupLogLevels(defLevel string) {
	if c.Meraki.Log.GetLevel() == log.None {
		c.Meraki.Log.Level = defLevel
	}
	if c.Http.Log.GetLevel() == log.None {
		c.Http.Log.Level = defLevel
	}
	if c.Http.Sse.Log.GetLevel() == log.None {
		c.Http.Sse.Log.Level = defLevel
	}
}
