package config

import (
	"fmt"
)

func (c *Config) Validate() error {
	if c.Http.Port < 1 || c.Http.Port > 65535 {
		return fmt.Errorf("http: invalid port %d", c.Http.Port)
	}
	if c.Diag.Enabled && (c.Diag.Port < 1 || c.Diag.Port > 65535) {
		return fmt.Errorf("diag: invalid port %d", c.Diag.Port)
	}
	if err := c.Meraki.validate(); err != nil {
		return err
	}
	if err := c.Cache.validate(); err != nil {
		return err
	}
	if err := c.Tls.validate(); err != nil {
		return err
	}
	return nil
}

func (m *MerakiConfig) validate() error {
	if m.BaseUrl == "" {
		return fmt.Errorf("meraki: base URL is required")
	}
	return m.Required.validate()
}

// validate enforces the parameter dependency order: a network can only be
// required when an organization is, which in turn needs the API key.
func (r *RequiredConfig) validate() error {
	if r.OrganizationId && !r.ApiKey {
		return fmt.Errorf("meraki: 'organization_id' cannot be required if 'api_key' is not")
	}
	if r.NetworkId && (!r.ApiKey || !r.OrganizationId) {
		return fmt.Errorf("meraki: 'network_id' cannot be required if 'api_key' or 'organization_id' is not")
	}
	return nil
}

func (c *CacheConfig) validate() error {
	if err := c.Redis.validate(); err != nil {
		return err
	}
	if err := c.MongoDb.validate(); err != nil {
		return err
	}
	if err := c.DynamoDb.validate(); err != nil {
		return err
	}
	return nil
}

func (r *RedisConfig) validate() error {
	if !r.Enabled {
		return nil
	}
	if len(r.Addresses) == 0 {
		return fmt.Errorf("redis: at least 1 server address required")
	}
	return r.Tls.validate()
}

func (m *MongoDbConfig) validate() error {
	if !m.Enabled {
		return nil
	}
	if m.Url == "" {
		return fmt.Errorf("mongodb: connection URL required")
	}
	if m.Database == "" || m.Collection == "" {
		return fmt.Errorf("mongodb: both database and collection names required")
	}
	return m.Tls.validate()
}

func (d *DynamoDbConfig) validate() error {
	if !d.Enabled {
		return nil
	}
	if d.Table == "" {
		return fmt.Errorf("dynamodb: table name required")
	}
	return nil
}

func (t *TlsConfig) validate() error {
	if !t.Enabled {
		return nil
	}
	for _, cert := range t.Certificates {
		if (cert.Cert != "" && cert.Key == "") || (cert.Key != "" && cert.Cert == "") {
			return fmt.Errorf("tls: both TLS cert and key file required")
		}
	}
	return nil
}
