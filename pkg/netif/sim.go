package netif

import (
	"net/netip"
	"sync"
)

// SimStack is an in-process Stack for host-side runs and tests. Station
// mode and association succeed immediately; the configured address is
// handed out on every connect.
type SimStack struct {
	mu sync.Mutex

	mac       [6]byte
	addr      netip.Addr
	enabled   bool
	connected bool

	events chan Event
}

// NewSimStack creates a simulated stack with the given MAC and the
// address Connect will report.
func NewSimStack(mac [6]byte, addr netip.Addr) *SimStack {
	return &SimStack{
		mac:    mac,
		addr:   addr,
		events: make(chan Event, 8),
	}
}

// MACAddress returns the configured hardware address.
func (s *SimStack) MACAddress(iface Interface) ([6]byte, error) {
	return s.mac, nil
}

// EnableStation brings the simulated station up and emits StationStarted.
func (s *SimStack) EnableStation() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.enabled {
		return nil
	}
	s.enabled = true
	s.emitLocked(StationStarted{})
	return nil
}

// Connect associates immediately and emits StationGotAddress.
func (s *SimStack) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connected = true
	s.emitLocked(StationGotAddress{Addr: s.addr})
	return nil
}

// Disconnect drops the simulated association.
func (s *SimStack) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connected = false
	s.enabled = false
	return nil
}

// Events returns the notification stream.
func (s *SimStack) Events() <-chan Event {
	return s.events
}

// Connected reports the simulated association state.
func (s *SimStack) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *SimStack) emitLocked(ev Event) {
	select {
	case s.events <- ev:
	default:
	}
}

// Compile-time interface satisfaction check.
var _ Stack = (*SimStack)(nil)
