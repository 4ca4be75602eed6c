package meraki

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/SandroNardi/wireless-client-graph/cache"
	"github.com/SandroNardi/wireless-client-graph/config"
	"github.com/SandroNardi/wireless-client-graph/internal/utils"
	"github.com/SandroNardi/wireless-client-graph/log"
	"github.com/SandroNardi/wireless-client-graph/model"
	"github.com/SandroNardi/wireless-client-graph/status"
)

// Params is the session scope the dashboard operates in. The key shown
// to clients is obfuscated.
type Params struct {
	ApiKey         string `json:"api_key"`
	OrganizationId string `json:"organization_id"`
	NetworkId      string `json:"network_id"`
}

// Wrapper holds the selected API key, organization and network, and
// serves the listing operations with optional cache support. It is safe
// for concurrent use.
type Wrapper struct {
	client       *Client
	cache        cache.External
	cacheEnabled bool
	required     RequiredParams
	reporter     status.Reporter
	log          log.Logger

	mu             sync.RWMutex
	apiKey         string
	organizationId string
	networkId      string
}

func NewWrapper(conf *config.MerakiConfig, client *Client, cacheStore cache.External, reporter status.Reporter, log log.Logger) *Wrapper {
	if cacheStore == nil {
		cacheStore = cache.NewInMemory()
	}
	return &Wrapper{
		client:       client,
		cache:        cacheStore,
		cacheEnabled: conf.CacheEnabled,
		required:     RequiredParamsFromConfig(&conf.Required),
		reporter:     reporter,
		log:          log.WithPrefix("wrapper"),
	}
}

// SetApiKey stores the key for subsequent calls. The key is accepted
// without an upstream probe; a bad key surfaces on the first listing
// call. Changing the key resets the organization and network selection.
func (w *Wrapper) SetApiKey(apiKey string) error {
	if apiKey == "" {
		return newNotConfiguredError("API key cannot be empty")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.apiKey = apiKey
	w.organizationId = ""
	w.networkId = ""
	w.log.Debugf("API key set: %s", utils.Obfuscate(apiKey, 4))
	return nil
}

// SetOrganization selects the organization scope. Changing it resets
// the network selection.
func (w *Wrapper) SetOrganization(organizationId string) error {
	if organizationId == "" {
		return newNotConfiguredError("organization ID cannot be empty")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.apiKey == "" {
		return newNotConfiguredError("API key must be set before selecting an organization")
	}
	w.organizationId = organizationId
	w.networkId = ""
	return nil
}

func (w *Wrapper) SetNetwork(networkId string) error {
	if networkId == "" {
		return newNotConfiguredError("network ID cannot be empty")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.apiKey == "" || w.organizationId == "" {
		return newNotConfiguredError("API key and organization must be set before selecting a network")
	}
	w.networkId = networkId
	return nil
}

func (w *Wrapper) ApiKey() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.apiKey
}

func (w *Wrapper) OrganizationId() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.organizationId
}

func (w *Wrapper) NetworkId() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.networkId
}

// CurrentParams reports the session scope with the API key masked.
func (w *Wrapper) CurrentParams() Params {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Params{
		ApiKey:         utils.Obfuscate(w.apiKey, 4),
		OrganizationId: w.organizationId,
		NetworkId:      w.networkId,
	}
}

func (w *Wrapper) Required() RequiredParams {
	return w.required
}

// Validate reports whether every required session parameter is set.
func (w *Wrapper) Validate() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.required.Validate(w.apiKey, w.organizationId, w.networkId)
}

// ListOrganizations returns the organizations visible to the current
// API key. With useCache, a previously fetched listing is served without
// touching the upstream. A failed fetch stores an empty listing, so
// subsequent cached calls keep returning empty until the key changes or
// the process restarts.
func (w *Wrapper) ListOrganizations(ctx context.Context, useCache bool) ([]model.Organization, error) {
	apiKey := w.ApiKey()
	if apiKey == "" {
		return nil, newNotConfiguredError("API key must be set before listing organizations")
	}
	key := "orgs:" + utils.FastHashHex([]byte(apiKey))
	return fetchWithCache(ctx, w, key, useCache, func() ([]model.Organization, error) {
		return w.client.Organizations(ctx, apiKey)
	})
}

// ListNetworks returns the networks of the selected organization,
// filtered by tags and product types. A network matches when it carries
// at least one of the given tags and at least one of the given product
// types; an empty filter list matches everything.
func (w *Wrapper) ListNetworks(ctx context.Context, useCache bool, tags []string, productTypes []string) ([]model.Network, error) {
	w.mu.RLock()
	apiKey, organizationId := w.apiKey, w.organizationId
	w.mu.RUnlock()
	if apiKey == "" || organizationId == "" {
		return nil, newNotConfiguredError("API key and organization must be set before listing networks")
	}
	key := "networks:" + organizationId
	networks, err := fetchWithCache(ctx, w, key, useCache, func() ([]model.Network, error) {
		return w.client.Networks(ctx, apiKey, organizationId)
	})
	if err != nil {
		return nil, err
	}
	return filterNetworks(networks, tags, productTypes), nil
}

// ClientCountHistory fetches the wireless client count samples of one
// network for the given window. History is never cached; it changes
// with every query window.
func (w *Wrapper) ClientCountHistory(ctx context.Context, networkId string, window model.Window) ([]model.ClientCount, error) {
	apiKey := w.ApiKey()
	if apiKey == "" {
		return nil, newNotConfiguredError("API key must be set before fetching history")
	}
	if networkId == "" {
		return nil, newNotConfiguredError("network ID cannot be empty")
	}
	history, err := w.client.WirelessClientCountHistory(ctx, apiKey, networkId, window)
	if err != nil {
		return nil, newUpstreamError(err)
	}
	return history, nil
}

func fetchWithCache[T any](ctx context.Context, w *Wrapper, key string, useCache bool, fetch func() ([]T, error)) ([]T, error) {
	if useCache && w.cacheEnabled {
		if payload, err := w.cache.Get(ctx, key); err == nil {
			var cached []T
			if err = json.Unmarshal(payload, &cached); err == nil {
				w.log.Debugf("serving '%s' from cache", key)
				return cached, nil
			}
			w.log.Errorf("failed to parse cache entry '%s': %s", key, err)
		} else if !errors.Is(err, cache.ErrEntryNotFound) {
			w.reporter.ReportError(status.Cache, err)
		}
	}

	result, fetchErr := fetch()
	if fetchErr != nil {
		// Remember the failure as an empty listing so cached reads
		// don't hammer a failing upstream.
		result = make([]T, 0)
	}
	if w.cacheEnabled {
		if payload, err := json.Marshal(result); err == nil {
			if err = w.cache.Set(ctx, key, payload); err != nil {
				w.reporter.ReportError(status.Cache, err)
			} else {
				w.reporter.ReportOk(status.Cache, "cache entry '"+key+"' stored")
			}
		}
	}
	if fetchErr != nil {
		return nil, newUpstreamError(fetchErr)
	}
	return result, nil
}

func filterNetworks(networks []model.Network, tags []string, productTypes []string) []model.Network {
	if len(tags) == 0 && len(productTypes) == 0 {
		return networks
	}
	filtered := make([]model.Network, 0, len(networks))
	for _, n := range networks {
		if anyMatch(n.Tags, tags) && anyMatch(n.ProductTypes, productTypes) {
			filtered = append(filtered, n)
		}
	}
	return filtered
}

func anyMatch(values []string, filter []string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, f := range filter {
		for _, v := range values {
			if v == f {
				return true
			}
		}
	}
	return false
}
