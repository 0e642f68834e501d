package netif

import (
	"net/netip"
)

// Interface identifies a radio interface.
type Interface uint8

const (
	// InterfaceStation is the client-role interface.
	InterfaceStation Interface = iota
)

// String returns the interface name.
func (i Interface) String() string {
	switch i {
	case InterfaceStation:
		return "STATION"
	default:
		return "UNKNOWN"
	}
}

// EventKind tags a network stack event variant.
type EventKind uint8

const (
	// KindStationStarted - station mode came up; a connect attempt may
	// be issued.
	KindStationStarted EventKind = iota

	// KindStationGotAddress - the station associated and obtained an
	// address.
	KindStationGotAddress
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case KindStationStarted:
		return "STATION_STARTED"
	case KindStationGotAddress:
		return "STATION_GOT_ADDRESS"
	default:
		return "UNKNOWN"
	}
}

// Event is a network stack notification.
type Event interface {
	// Kind identifies the variant.
	Kind() EventKind
}

// StationStarted is emitted when station mode comes up.
type StationStarted struct{}

// Kind identifies the variant.
func (StationStarted) Kind() EventKind { return KindStationStarted }

// StationGotAddress is emitted when the station obtains an address.
type StationGotAddress struct {
	Addr netip.Addr
}

// Kind identifies the variant.
func (StationGotAddress) Kind() EventKind { return KindStationGotAddress }

// Stack is the network stack the agent drives. Connect failures and
// retry/backoff are the stack's own concern; the agent only issues the
// initial calls and observes events.
type Stack interface {
	// MACAddress returns the hardware address of the given interface.
	MACAddress(iface Interface) ([6]byte, error)

	// EnableStation brings the radio up in client mode. The stack emits
	// StationStarted once the interface is up.
	EnableStation() error

	// Connect starts association using the stored credentials. The stack
	// emits StationGotAddress on success and retries internally on
	// failure.
	Connect() error

	// Disconnect drops the current association, if any.
	Disconnect() error

	// Events returns the notification stream.
	Events() <-chan Event
}
