package history

import (
	"context"

	"github.com/SandroNardi/wireless-client-graph/log"
	"github.com/SandroNardi/wireless-client-graph/meraki"
	"github.com/SandroNardi/wireless-client-graph/model"
)

// Collector gathers wireless client count histories across networks.
type Collector struct {
	wrapper *meraki.Wrapper
	log     log.Logger
}

func NewCollector(wrapper *meraki.Wrapper, log log.Logger) *Collector {
	return &Collector{wrapper: wrapper, log: log.WithPrefix("history")}
}

// Collect fetches the history of every given network for the window.
// A failing network contributes an empty history instead of failing the
// whole collection, so the chart can still render the rest.
func (c *Collector) Collect(ctx context.Context, networks []model.Network, window model.Window) map[string]model.NetworkHistory {
	result := make(map[string]model.NetworkHistory, len(networks))
	for _, network := range networks {
		samples, err := c.wrapper.ClientCountHistory(ctx, network.Id, window)
		if err != nil {
			c.log.Errorf("failed to fetch history for network '%s': %s", network.Id, err)
			result[network.Id] = model.NetworkHistory{Name: network.Name, History: []model.ClientCount{}}
			continue
		}
		result[network.Id] = model.NetworkHistory{Name: network.Name, History: samples}
	}
	return result
}
