package station

import (
	"log/slog"
	"net/netip"
	"sync"

	"github.com/wifiprov/wifiprov-go/pkg/netif"
)

// ConnectivityState is the station's connection state.
type ConnectivityState uint8

const (
	// Disconnected - no association.
	Disconnected ConnectivityState = iota

	// Connecting - a connect attempt was issued, no address yet.
	Connecting

	// Connected - associated with an address assigned.
	Connected
)

// String returns the state name.
func (s ConnectivityState) String() string {
	switch s {
	case Disconnected:
		return "DISCONNECTED"
	case Connecting:
		return "CONNECTING"
	case Connected:
		return "CONNECTED"
	default:
		return "UNKNOWN"
	}
}

// Driver owns the ConnectivityState. The lifecycle controller reads it;
// only the driver writes it.
type Driver struct {
	mu sync.RWMutex

	stack  netif.Stack
	logger *slog.Logger

	state ConnectivityState
	addr  netip.Addr
}

// NewDriver creates a driver over the given stack. logger may be nil.
func NewDriver(stack netif.Stack, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{
		stack:  stack,
		logger: logger,
		state:  Disconnected,
	}
}

// HandleStationStarted issues the connect attempt for a freshly started
// station. Failures are reported but not retried here.
func (d *Driver) HandleStationStarted() error {
	d.mu.Lock()
	d.state = Connecting
	d.mu.Unlock()

	if err := d.stack.Connect(); err != nil {
		d.logger.Error("connect attempt failed", "error", err)
		return err
	}
	return nil
}

// HandleGotAddress records the assigned address.
func (d *Driver) HandleGotAddress(addr netip.Addr) {
	d.mu.Lock()
	d.state = Connected
	d.addr = addr
	d.mu.Unlock()

	d.logger.Info("station connected", "address", addr.String())
}

// Disconnect drops the association and resets the state.
func (d *Driver) Disconnect() error {
	d.mu.Lock()
	d.state = Disconnected
	d.addr = netip.Addr{}
	d.mu.Unlock()

	return d.stack.Disconnect()
}

// State returns the current connectivity state and, when Connected, the
// assigned address.
func (d *Driver) State() (ConnectivityState, netip.Addr) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state, d.addr
}
