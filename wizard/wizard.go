package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/SandroNardi/wireless-client-graph/config"
	"github.com/SandroNardi/wireless-client-graph/log"
	"github.com/SandroNardi/wireless-client-graph/meraki"
)

// Step identifies the next parameter the setup flow asks for.
type Step string

const (
	StepApiKey       Step = "api_key"
	StepOrganization Step = "organization"
	StepNetwork      Step = "network"
	StepDone         Step = "done"
)

var (
	ErrNoOrganizations     = errors.New("the API key has no visible organizations")
	ErrUnknownOrganization = errors.New("organization is not in the listing")
	ErrNoNetworks          = errors.New("the organization has no networks")
	ErrUnknownNetwork      = errors.New("network is not in the listing")
)

// Wizard walks the linear API key -> organization -> network setup over
// the session wrapper. Only parameters marked required produce a step.
// A non-empty key is accepted as-is; organization and network ids are
// checked against the live listings before selection.
type Wizard struct {
	wrapper *meraki.Wrapper
	log     log.Logger
}

func New(wrapper *meraki.Wrapper, log log.Logger) *Wizard {
	return &Wizard{wrapper: wrapper, log: log.WithPrefix("wizard")}
}

// Current reports the first required parameter still missing.
func (w *Wizard) Current() Step {
	required := w.wrapper.Required()
	if required.ApiKey && w.wrapper.ApiKey() == "" {
		return StepApiKey
	}
	if required.OrganizationId && w.wrapper.OrganizationId() == "" {
		return StepOrganization
	}
	if required.NetworkId && w.wrapper.NetworkId() == "" {
		return StepNetwork
	}
	return StepDone
}

func (w *Wizard) Complete() bool {
	return w.Current() == StepDone
}

func (w *Wizard) SubmitApiKey(apiKey string) error {
	return w.wrapper.SetApiKey(apiKey)
}

// SubmitOrganization selects an organization after checking it against
// the listing. An empty listing is terminal for the current key.
func (w *Wizard) SubmitOrganization(ctx context.Context, organizationId string) error {
	orgs, err := w.wrapper.ListOrganizations(ctx, true)
	if err != nil {
		return err
	}
	if len(orgs) == 0 {
		return ErrNoOrganizations
	}
	for _, org := range orgs {
		if org.Id == organizationId {
			return w.wrapper.SetOrganization(organizationId)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownOrganization, organizationId)
}

// SubmitNetwork selects a network after checking it against the
// selected organization's listing.
func (w *Wizard) SubmitNetwork(ctx context.Context, networkId string) error {
	networks, err := w.wrapper.ListNetworks(ctx, true, nil, nil)
	if err != nil {
		return err
	}
	if len(networks) == 0 {
		return ErrNoNetworks
	}
	for _, network := range networks {
		if network.Id == networkId {
			return w.wrapper.SetNetwork(networkId)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownNetwork, networkId)
}

// Bootstrap consumes pre-supplied values from the configuration in the
// same order the interactive setup asks for them. It stops at the first
// missing value; a failed step aborts the whole setup.
func (w *Wizard) Bootstrap(ctx context.Context, conf *config.MerakiConfig) error {
	if conf.ApiKey == "" {
		return nil
	}
	if err := w.SubmitApiKey(conf.ApiKey); err != nil {
		return err
	}
	w.log.Reportf("API key preconfigured")
	if conf.OrganizationId == "" {
		return nil
	}
	if err := w.SubmitOrganization(ctx, conf.OrganizationId); err != nil {
		return err
	}
	w.log.Reportf("organization preconfigured: %s", conf.OrganizationId)
	if conf.NetworkId == "" {
		return nil
	}
	if err := w.SubmitNetwork(ctx, conf.NetworkId); err != nil {
		return err
	}
	w.log.Reportf("network preconfigured: %s", conf.NetworkId)
	return nil
}
