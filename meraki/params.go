package meraki

import (
	"strings"

	"github.com/SandroNardi/wireless-client-graph/config"
)

// RequiredParams mirrors the configured required-parameter map. The
// dependency order (network needs organization needs key) is enforced
// by config validation.
type RequiredParams struct {
	ApiKey         bool `json:"api_key"`
	OrganizationId bool `json:"organization_id"`
	NetworkId      bool `json:"network_id"`
}

func RequiredParamsFromConfig(conf *config.RequiredConfig) RequiredParams {
	return RequiredParams{
		ApiKey:         conf.ApiKey,
		OrganizationId: conf.OrganizationId,
		NetworkId:      conf.NetworkId,
	}
}

// Validate lists the required parameters still missing from the session.
func (r RequiredParams) Validate(apiKey string, organizationId string, networkId string) error {
	var missing []string
	if r.ApiKey && apiKey == "" {
		missing = append(missing, "api_key")
	}
	if r.OrganizationId && organizationId == "" {
		missing = append(missing, "organization_id")
	}
	if r.NetworkId && networkId == "" {
		missing = append(missing, "network_id")
	}
	if len(missing) > 0 {
		return newNotConfiguredError("missing required parameters: " + strings.Join(missing, ", "))
	}
	return nil
}
