package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wifiprov/wifiprov-go/pkg/netif"
	"github.com/wifiprov/wifiprov-go/pkg/prov"
)

type unknownProvEvent struct{}

func (unknownProvEvent) Kind() prov.EventKind { return prov.EventKind(99) }

type unknownNetEvent struct{}

func (unknownNetEvent) Kind() netif.EventKind { return netif.EventKind(99) }

func TestRouterIgnoresUnknownEvents(t *testing.T) {
	f := newFixture(t, false)
	require.NoError(t, f.controller.Bootstrap())
	router := NewRouter(f.controller)

	assert.NoError(t, router.DispatchProv(unknownProvEvent{}))
	assert.NoError(t, router.DispatchNet(unknownNetEvent{}))

	// Session untouched
	assert.Equal(t, StateActive, f.controller.Session().State)
}

func TestRouterDispatchesAllKnownKinds(t *testing.T) {
	f := newFixture(t, false)
	require.NoError(t, f.controller.Bootstrap())
	router := NewRouter(f.controller)

	for _, ev := range []prov.Event{
		prov.Started{ServiceName: "PROV_A1B2C3"},
		prov.CredentialsReceived{SSID: "HomeNet", Password: "pw"},
		prov.Succeeded{},
		prov.Ended{},
	} {
		require.NoError(t, router.DispatchProv(ev))
	}
	assert.Equal(t, StateCompleted, f.controller.Session().State)

	require.NoError(t, router.DispatchNet(netif.StationStarted{}))
	assert.Equal(t, 1, f.calls.count("connect"))
}
