package agent_test

import (
	"context"
	"net/netip"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wifiprov/wifiprov-go/pkg/agent"
	"github.com/wifiprov/wifiprov-go/pkg/button"
	"github.com/wifiprov/wifiprov-go/pkg/credstore"
	"github.com/wifiprov/wifiprov-go/pkg/netif"
	"github.com/wifiprov/wifiprov-go/pkg/prov"
	"github.com/wifiprov/wifiprov-go/pkg/station"
)

// loopbackScheme is a transport that delivers fixed credentials shortly
// after each session opens, from its own goroutine.
type loopbackScheme struct {
	mu       sync.Mutex
	ssid     string
	password string
	delay    time.Duration
	starts   int
}

func (s *loopbackScheme) Start(serviceName string, sec prov.Security, pop string, deliver prov.CredentialSink) error {
	s.mu.Lock()
	s.starts++
	s.mu.Unlock()

	go func() {
		time.Sleep(s.delay)
		deliver(s.ssid, s.password)
	}()
	return nil
}

func (s *loopbackScheme) Stop() error { return nil }

func (s *loopbackScheme) startCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts
}

// pressedPin always reads pressed, so every settled edge confirms.
type pressedPin struct{}

func (pressedPin) Level() bool { return true }

// TestEndToEndProvisioning drives the real manager, store, simulated
// stack, and button source through a full provision, connect, and
// button-triggered reprovision.
func TestEndToEndProvisioning(t *testing.T) {
	store, err := credstore.Open(filepath.Join(t.TempDir(), "creds.cbor"))
	require.NoError(t, err)

	scheme := &loopbackScheme{ssid: "HomeNet", password: "hunter2", delay: 5 * time.Millisecond}
	manager, err := prov.NewSchemeManager(prov.Config{Scheme: scheme, Store: store})
	require.NoError(t, err)

	stack := netif.NewSimStack(
		[6]byte{0x24, 0x6F, 0x28, 0xA1, 0xB2, 0xC3},
		netip.MustParseAddr("192.168.4.2"),
	)

	controller, err := agent.NewController(agent.Config{
		Manager: manager,
		Stack:   stack,
		Station: station.NewDriver(stack, nil),
		Store:   store,
	})
	require.NoError(t, err)

	source, err := button.NewSource(button.Config{Pin: pressedPin{}, Settle: time.Millisecond})
	require.NoError(t, err)
	source.Start()
	defer source.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- controller.Run(ctx, source.Triggers()) }()

	// First boot: provision, persist, connect.
	require.Eventually(t, func() bool {
		return controller.Session().State == agent.StateCompleted &&
			store.Has(prov.CredentialsKey) &&
			stack.Connected()
	}, time.Second, time.Millisecond)
	require.Equal(t, "PROV_A1B2C3", controller.ServiceName())

	stored, err := prov.LoadCredentials(store)
	require.NoError(t, err)
	require.Equal(t, "HomeNet", stored.SSID)
	require.Equal(t, "hunter2", stored.Password)

	// Button press: tear down and provision again.
	source.Interrupt(32)
	require.Eventually(t, func() bool {
		return scheme.startCount() == 2 &&
			controller.Session().State == agent.StateCompleted
	}, time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
