package wizard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SandroNardi/wireless-client-graph/cache"
	"github.com/SandroNardi/wireless-client-graph/config"
	"github.com/SandroNardi/wireless-client-graph/log"
	"github.com/SandroNardi/wireless-client-graph/meraki"
	"github.com/SandroNardi/wireless-client-graph/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWizard(t *testing.T, required config.RequiredConfig, handler http.HandlerFunc) (*Wizard, *meraki.Wrapper) {
	t.Helper()
	if handler == nil {
		handler = func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/organizations") {
				_, _ = w.Write([]byte(`[{"id":"org-1","name":"Org One"},{"id":"org-2","name":"Org Two"}]`))
				return
			}
			_, _ = w.Write([]byte(`[{"id":"n1","name":"Office","productTypes":["wireless"]}]`))
		}
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	conf := &config.MerakiConfig{BaseUrl: srv.URL, CacheEnabled: true, Required: required}
	client := meraki.NewClient(conf, nil, log.NewNullLogger())
	wrapper := meraki.NewWrapper(conf, client, cache.NewInMemory(), status.NewNullReporter(), log.NewNullLogger())
	return New(wrapper, log.NewNullLogger()), wrapper
}

func TestWizard_Steps(t *testing.T) {
	wizard, wrapper := newTestWizard(t, config.RequiredConfig{ApiKey: true, OrganizationId: true, NetworkId: true}, nil)

	assert.Equal(t, StepApiKey, wizard.Current())
	assert.False(t, wizard.Complete())

	require.NoError(t, wizard.SubmitApiKey("key"))
	assert.Equal(t, StepOrganization, wizard.Current())

	require.NoError(t, wizard.SubmitOrganization(context.Background(), "org-1"))
	assert.Equal(t, StepNetwork, wizard.Current())

	require.NoError(t, wizard.SubmitNetwork(context.Background(), "n1"))
	assert.Equal(t, StepDone, wizard.Current())
	assert.True(t, wizard.Complete())
	assert.Equal(t, "n1", wrapper.NetworkId())
}

func TestWizard_OptionalNetwork(t *testing.T) {
	wizard, _ := newTestWizard(t, config.RequiredConfig{ApiKey: true, OrganizationId: true}, nil)

	require.NoError(t, wizard.SubmitApiKey("key"))
	require.NoError(t, wizard.SubmitOrganization(context.Background(), "org-2"))
	assert.Equal(t, StepDone, wizard.Current())
}

func TestWizard_EmptyKeyRejected(t *testing.T) {
	wizard, _ := newTestWizard(t, config.RequiredConfig{ApiKey: true}, nil)
	assert.Error(t, wizard.SubmitApiKey(""))
}

func TestWizard_UnknownOrganization(t *testing.T) {
	wizard, wrapper := newTestWizard(t, config.RequiredConfig{ApiKey: true, OrganizationId: true}, nil)
	require.NoError(t, wizard.SubmitApiKey("key"))

	err := wizard.SubmitOrganization(context.Background(), "org-99")
	assert.ErrorIs(t, err, ErrUnknownOrganization)
	assert.Empty(t, wrapper.OrganizationId())
}

func TestWizard_EmptyOrganizationListing(t *testing.T) {
	wizard, _ := newTestWizard(t, config.RequiredConfig{ApiKey: true, OrganizationId: true}, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	require.NoError(t, wizard.SubmitApiKey("key"))

	err := wizard.SubmitOrganization(context.Background(), "org-1")
	assert.ErrorIs(t, err, ErrNoOrganizations)
}

func TestWizard_UpstreamFailure(t *testing.T) {
	wizard, _ := newTestWizard(t, config.RequiredConfig{ApiKey: true, OrganizationId: true}, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":["Invalid API key"]}`))
	})
	require.NoError(t, wizard.SubmitApiKey("bad-key"))

	err := wizard.SubmitOrganization(context.Background(), "org-1")
	var merr *meraki.Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, meraki.Upstream, merr.Kind)
}

func TestWizard_UnknownNetwork(t *testing.T) {
	wizard, _ := newTestWizard(t, config.RequiredConfig{ApiKey: true, OrganizationId: true, NetworkId: true}, nil)
	require.NoError(t, wizard.SubmitApiKey("key"))
	require.NoError(t, wizard.SubmitOrganization(context.Background(), "org-1"))

	err := wizard.SubmitNetwork(context.Background(), "n-99")
	assert.ErrorIs(t, err, ErrUnknownNetwork)
}

func TestWizard_KeyChangeRestartsFlow(t *testing.T) {
	wizard, _ := newTestWizard(t, config.RequiredConfig{ApiKey: true, OrganizationId: true}, nil)

	require.NoError(t, wizard.SubmitApiKey("key"))
	require.NoError(t, wizard.SubmitOrganization(context.Background(), "org-1"))
	require.NoError(t, wizard.SubmitApiKey("another"))
	assert.Equal(t, StepOrganization, wizard.Current())
}

func TestWizard_Bootstrap(t *testing.T) {
	t.Run("full", func(t *testing.T) {
		wizard, wrapper := newTestWizard(t, config.RequiredConfig{ApiKey: true, OrganizationId: true, NetworkId: true}, nil)
		err := wizard.Bootstrap(context.Background(), &config.MerakiConfig{ApiKey: "key", OrganizationId: "org-1", NetworkId: "n1"})
		require.NoError(t, err)
		assert.True(t, wizard.Complete())
		assert.Equal(t, "n1", wrapper.NetworkId())
	})
	t.Run("partial stops at first missing value", func(t *testing.T) {
		wizard, wrapper := newTestWizard(t, config.RequiredConfig{ApiKey: true, OrganizationId: true}, nil)
		err := wizard.Bootstrap(context.Background(), &config.MerakiConfig{ApiKey: "key"})
		require.NoError(t, err)
		assert.Equal(t, StepOrganization, wizard.Current())
		assert.Empty(t, wrapper.OrganizationId())
	})
	t.Run("nothing preconfigured", func(t *testing.T) {
		wizard, _ := newTestWizard(t, config.RequiredConfig{ApiKey: true}, nil)
		require.NoError(t, wizard.Bootstrap(context.Background(), &config.MerakiConfig{}))
		assert.Equal(t, StepApiKey, wizard.Current())
	})
	t.Run("invalid preconfigured organization aborts", func(t *testing.T) {
		wizard, _ := newTestWizard(t, config.RequiredConfig{ApiKey: true, OrganizationId: true}, nil)
		err := wizard.Bootstrap(context.Background(), &config.MerakiConfig{ApiKey: "key", OrganizationId: "org-99"})
		assert.ErrorIs(t, err, ErrUnknownOrganization)
	})
	t.Run("network skipped without organization", func(t *testing.T) {
		wizard, _ := newTestWizard(t, config.RequiredConfig{ApiKey: true, OrganizationId: true, NetworkId: true}, nil)
		err := wizard.Bootstrap(context.Background(), &config.MerakiConfig{ApiKey: "key", NetworkId: "n1"})
		require.NoError(t, err)
		assert.Equal(t, StepOrganization, wizard.Current())
	})
}
