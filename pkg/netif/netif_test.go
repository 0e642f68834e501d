package netif

import (
	"net/netip"
	"testing"
)

func TestSimStackLifecycle(t *testing.T) {
	mac := [6]byte{0x24, 0x6F, 0x28, 0xA1, 0xB2, 0xC3}
	addr := netip.MustParseAddr("192.168.1.42")
	s := NewSimStack(mac, addr)

	got, err := s.MACAddress(InterfaceStation)
	if err != nil {
		t.Fatalf("MACAddress failed: %v", err)
	}
	if got != mac {
		t.Errorf("MACAddress = %v, want %v", got, mac)
	}

	if err := s.EnableStation(); err != nil {
		t.Fatalf("EnableStation failed: %v", err)
	}
	ev := <-s.Events()
	if ev.Kind() != KindStationStarted {
		t.Fatalf("expected StationStarted, got %s", ev.Kind())
	}

	// Enabling twice does not emit twice
	if err := s.EnableStation(); err != nil {
		t.Fatalf("EnableStation failed: %v", err)
	}
	select {
	case ev := <-s.Events():
		t.Fatalf("unexpected event after second EnableStation: %s", ev.Kind())
	default:
	}

	if err := s.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	ev = <-s.Events()
	gotAddr, ok := ev.(StationGotAddress)
	if !ok {
		t.Fatalf("expected StationGotAddress, got %T", ev)
	}
	if gotAddr.Addr != addr {
		t.Errorf("address = %v, want %v", gotAddr.Addr, addr)
	}
	if !s.Connected() {
		t.Error("Connected() = false after Connect")
	}

	if err := s.Disconnect(); err != nil {
		t.Fatalf("Disconnect failed: %v", err)
	}
	if s.Connected() {
		t.Error("Connected() = true after Disconnect")
	}
}

func TestEventKindString(t *testing.T) {
	tests := []struct {
		kind EventKind
		want string
	}{
		{KindStationStarted, "STATION_STARTED"},
		{KindStationGotAddress, "STATION_GOT_ADDRESS"},
		{EventKind(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("EventKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
