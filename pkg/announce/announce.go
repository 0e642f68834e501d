package announce

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// Service constants.
const (
	// ServiceType is the advertised mDNS service type.
	ServiceType = "_wifiprov._tcp"

	// Domain is the mDNS domain.
	Domain = "local."

	// DefaultPort is advertised when the configuration does not name
	// one. Nothing listens on it; the record only carries presence.
	DefaultPort = 8899

	// DefaultTTL is the DNS record TTL.
	DefaultTTL = 120 * time.Second
)

// Config configures an Announcer.
type Config struct {
	// Interface restricts advertising to one network interface.
	// Empty means all interfaces.
	Interface string

	// Port is the advertised port. Zero means DefaultPort.
	Port int

	// TTL is the DNS record TTL. Zero means DefaultTTL.
	TTL time.Duration

	// Logger is the optional logger for debug output.
	Logger *slog.Logger
}

// Announcer registers the device's mDNS presence.
type Announcer struct {
	mu sync.Mutex

	config Config
	logger *slog.Logger
	server *zeroconf.Server
}

// New creates an announcer. Nothing is advertised until Announce.
func New(config Config) *Announcer {
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if config.TTL == 0 {
		config.TTL = DefaultTTL
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Announcer{config: config, logger: logger}
}

// TXTRecords builds the advertised TXT records.
func TXTRecords(serviceName, version string) []string {
	return []string{
		"name=" + serviceName,
		"ver=" + version,
	}
}

// Announce registers the service instance, replacing any previous
// registration.
func (a *Announcer) Announce(instance string, txt []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}

	opts := []zeroconf.ServerOption{
		zeroconf.TTL(uint32(a.config.TTL.Seconds())),
	}

	server, err := zeroconf.Register(
		instance,
		ServiceType,
		Domain,
		a.config.Port,
		txt,
		a.interfaces(),
		opts...,
	)
	if err != nil {
		return fmt.Errorf("mdns registration failed: %w", err)
	}

	a.server = server
	a.logger.Info("mdns presence announced",
		"instance", instance, "service", ServiceType, "port", a.config.Port)
	return nil
}

// Shutdown withdraws the advertisement. Safe to call without a prior
// Announce.
func (a *Announcer) Shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}

// interfaces returns the interfaces to advertise on, nil for all.
func (a *Announcer) interfaces() []net.Interface {
	if a.config.Interface == "" {
		return nil
	}
	iface, err := net.InterfaceByName(a.config.Interface)
	if err != nil {
		a.logger.Warn("interface not found, using all", "interface", a.config.Interface)
		return nil
	}
	return []net.Interface{*iface}
}
