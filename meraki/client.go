package meraki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SandroNardi/wireless-client-graph/config"
	"github.com/SandroNardi/wireless-client-graph/log"
	"github.com/SandroNardi/wireless-client-graph/model"
)

const clientTimeout = 30 * time.Second

// APIError is a non-2xx answer from the Meraki API, carrying the
// messages from the response's "errors" field.
type APIError struct {
	StatusCode int
	Messages   []string
}

func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("meraki API responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("meraki API responded with status %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

// Client talks to the Meraki dashboard REST API. It holds no session
// state; the API key is passed per call.
type Client struct {
	baseUrl    string
	httpClient *http.Client
	log        log.Logger
}

func NewClient(conf *config.MerakiConfig, transport http.RoundTripper, log log.Logger) *Client {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Client{
		baseUrl:    strings.TrimSuffix(conf.BaseUrl, "/"),
		httpClient: &http.Client{Transport: transport, Timeout: clientTimeout},
		log:        log.WithPrefix("meraki"),
	}
}

func (c *Client) Organizations(ctx context.Context, apiKey string) ([]model.Organization, error) {
	var orgs []model.Organization
	if err := c.get(ctx, apiKey, "/organizations", nil, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

func (c *Client) Networks(ctx context.Context, apiKey string, organizationId string) ([]model.Network, error) {
	var networks []model.Network
	path := "/organizations/" + url.PathEscape(organizationId) + "/networks"
	if err := c.get(ctx, apiKey, path, nil, &networks); err != nil {
		return nil, err
	}
	return networks, nil
}

func (c *Client) WirelessClientCountHistory(ctx context.Context, apiKey string, networkId string, window model.Window) ([]model.ClientCount, error) {
	var history []model.ClientCount
	path := "/networks/" + url.PathEscape(networkId) + "/wireless/clientCountHistory"
	query := url.Values{
		"t0":             {window.Start.UTC().Format(time.RFC3339)},
		"t1":             {window.End.UTC().Format(time.RFC3339)},
		"autoResolution": {"true"},
	}
	if err := c.get(ctx, apiKey, path, query, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func (c *Client) get(ctx context.Context, apiKey string, path string, query url.Values, out any) error {
	target := c.baseUrl + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Accept", "application/json")

	c.log.Debugf("GET %s", path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Messages: parseErrorMessages(body)}
	}
	return json.Unmarshal(body, out)
}

func parseErrorMessages(body []byte) []string {
	var payload struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	return payload.Errors
}
