package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"sync"

	"github.com/google/uuid"

	"github.com/wifiprov/wifiprov-go/pkg/announce"
	"github.com/wifiprov/wifiprov-go/pkg/credstore"
	"github.com/wifiprov/wifiprov-go/pkg/identity"
	"github.com/wifiprov/wifiprov-go/pkg/log"
	"github.com/wifiprov/wifiprov-go/pkg/netif"
	"github.com/wifiprov/wifiprov-go/pkg/prov"
	"github.com/wifiprov/wifiprov-go/pkg/qrpayload"
)

// SecretKey is the store key holding the per-device master secret. It
// deliberately survives ResetProvisioning so the PoP stays stable across
// re-provisioning.
const SecretKey = "device.secret"

// Controller owns the provisioning session and serializes every
// transition, including the full reprovision restart, behind one mutex.
type Controller struct {
	mu sync.Mutex

	config Config
	logger *slog.Logger
	events log.Logger

	// Derived once at bootstrap, held for the process lifetime.
	serviceName string
	pop         string

	bootstrapped bool
	session      Session
}

// NewController creates a controller.
func NewController(cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	events := cfg.EventLogger
	if events == nil {
		events = log.NoopLogger{}
	}
	if cfg.Renderer == nil {
		cfg.Renderer = qrpayload.NoopRenderer{}
	}
	return &Controller{
		config:  cfg,
		logger:  logger,
		events:  events,
		session: Session{State: StateIdle},
	}, nil
}

// Session returns a copy of the current session.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// ServiceName returns the derived service name. Empty before Bootstrap.
func (c *Controller) ServiceName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.serviceName
}

// Bootstrap computes the device identity, initializes the provisioning
// subsystem, and either enters Active (no stored credentials) or brings
// the station up directly (already provisioned). Any failure here is
// fatal for the boot sequence.
func (c *Controller) Bootstrap() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bootstrapped {
		return nil
	}

	mac, err := c.config.Stack.MACAddress(netif.InterfaceStation)
	if err != nil {
		return fmt.Errorf("failed to read MAC address: %w", err)
	}
	c.serviceName = identity.ServiceName(mac)

	secret, err := c.loadOrCreateSecretLocked()
	if err != nil {
		return err
	}
	c.pop, err = identity.DerivePoP(secret)
	if err != nil {
		return err
	}

	if err := c.config.Manager.Init(); err != nil {
		return fmt.Errorf("provisioning init failed: %w", err)
	}

	provisioned, err := c.config.Manager.IsProvisioned()
	if err != nil {
		return fmt.Errorf("failed to check provisioning state: %w", err)
	}
	c.bootstrapped = true

	if !provisioned {
		c.logger.Info("no stored credentials, starting provisioning",
			"service_name", c.serviceName)
		return c.enterActiveLocked("boot without credentials")
	}

	// Already provisioned: never enter Active, go straight to station.
	c.logger.Info("already provisioned, connecting", "service_name", c.serviceName)
	if err := c.config.Stack.EnableStation(); err != nil {
		return fmt.Errorf("failed to enable station mode: %w", err)
	}
	return nil
}

// Reprovision tears down the current state and restarts provisioning.
// The sequence order is mandated by the subsystem: disconnect the
// station, stop, reset, deinit, then init and start again. The whole
// sequence runs under the mutex; a concurrent notification waits.
func (c *Controller) Reprovision() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.bootstrapped {
		return ErrNotBootstrapped
	}

	c.logger.Info("reprovisioning requested", "state", c.session.State.String())

	// Station first; a disconnect failure only means there was nothing
	// to disconnect.
	if err := c.config.Station.Disconnect(); err != nil {
		c.logger.Warn("station disconnect failed", "error", err)
	}

	if err := c.config.Manager.StopProvisioning(); err != nil {
		return fmt.Errorf("provisioning stop failed: %w", err)
	}
	if err := c.config.Manager.ResetProvisioning(); err != nil {
		return fmt.Errorf("provisioning reset failed: %w", err)
	}
	if err := c.config.Manager.Deinit(); err != nil {
		return fmt.Errorf("provisioning deinit failed: %w", err)
	}

	c.transitionLocked(StateStopped, "reprovision")

	if err := c.config.Manager.Init(); err != nil {
		return fmt.Errorf("provisioning init failed: %w", err)
	}
	return c.enterActiveLocked("reprovision")
}

// Run bootstraps the controller and drives the event loop until ctx is
// cancelled or a fatal error occurs. Run is the single serialized entry
// point: triggers and notifications are processed one at a time.
func (c *Controller) Run(ctx context.Context, triggers <-chan struct{}) error {
	if err := c.Bootstrap(); err != nil {
		return err
	}

	router := NewRouter(c)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-c.config.Manager.Events():
			if err := router.DispatchProv(ev); err != nil {
				return err
			}
		case ev := <-c.config.Stack.Events():
			if err := router.DispatchNet(ev); err != nil {
				return err
			}
		case <-triggers:
			if err := c.Reprovision(); err != nil {
				return err
			}
		}
	}
}

// enterActiveLocked opens a new session. Callers hold c.mu. Entering
// Active while already Active is rejected, never an overlapping start.
func (c *Controller) enterActiveLocked(reason string) error {
	if c.session.State == StateActive {
		return ErrSessionActive
	}

	if err := c.config.Manager.StartProvisioning(prov.Security1, c.pop, c.serviceName); err != nil {
		return fmt.Errorf("provisioning start failed: %w", err)
	}

	old := c.session.State
	c.session = Session{
		ID:          uuid.NewString(),
		State:       StateActive,
		ServiceName: c.serviceName,
	}
	c.events.Log(log.NewStateChangeEvent(c.session.ID, old.String(), StateActive.String(), reason))

	c.displayPayloadLocked()
	return nil
}

// displayPayloadLocked encodes and renders the provisioning payload.
// Display problems are logged, not fatal; the session is already open.
func (c *Controller) displayPayloadLocked() {
	p, err := qrpayload.New(c.serviceName, c.pop, qrpayload.TransportBLE)
	if err != nil {
		c.logger.Error("failed to build provisioning payload", "error", err)
		return
	}
	data, err := p.Encode()
	if err != nil {
		c.logger.Error("failed to encode provisioning payload", "error", err)
		return
	}

	c.logger.Info("scan to provision", "helper_url", qrpayload.HelperURL)
	if err := c.config.Renderer.Render(data); err != nil {
		c.logger.Warn("payload render failed", "error", err)
	}
}

// transitionLocked moves the session to a new state. Callers hold c.mu.
func (c *Controller) transitionLocked(next SessionState, reason string) {
	old := c.session.State
	if old == next {
		return
	}
	c.session.State = next
	c.events.Log(log.NewStateChangeEvent(c.session.ID, old.String(), next.String(), reason))
	c.logger.Debug("session state changed",
		"old", old.String(), "new", next.String(), "reason", reason)
}

// loadOrCreateSecretLocked loads the device master secret, generating
// and persisting it at first boot. Callers hold c.mu.
func (c *Controller) loadOrCreateSecretLocked() ([]byte, error) {
	secret, err := c.config.Store.Get(SecretKey)
	if err == nil {
		return secret, nil
	}
	if !errors.Is(err, credstore.ErrKeyNotFound) {
		return nil, fmt.Errorf("failed to load device secret: %w", err)
	}

	secret, err = identity.GenerateSecret()
	if err != nil {
		return nil, err
	}
	if err := c.config.Store.Set(SecretKey, secret); err != nil {
		return nil, fmt.Errorf("failed to persist device secret: %w", err)
	}
	c.logger.Info("generated device secret at first boot")
	return secret, nil
}

// Event handlers, invoked by the router.

func (c *Controller) handleProvStarted(ev prov.Started) {
	c.logger.Info("provisioning started", "service_name", ev.ServiceName)
}

func (c *Controller) handleCredentialsReceived(ev prov.CredentialsReceived) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Info("received credentials", "ssid", ev.SSID)
	c.logger.Debug("received network password", "password", ev.Password)
	c.events.Log(log.NewCredentialEvent(c.session.ID, ev.SSID))

	if c.session.State == StateActive {
		c.transitionLocked(StateCredentialsReceived, "credentials received")
	}
}

func (c *Controller) handleSucceeded() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Info("provisioning successful")
	if c.session.State == StateCredentialsReceived {
		c.transitionLocked(StateCompleted, "provisioning succeeded")
	}

	// Credentials are in hand; bring the station up. The connect itself
	// is issued when the stack reports StationStarted.
	if err := c.config.Stack.EnableStation(); err != nil {
		return fmt.Errorf("failed to enable station mode: %w", err)
	}
	return nil
}

func (c *Controller) handleEnded() {
	c.logger.Info("provisioning stopped")
}

func (c *Controller) handleStationStarted() error {
	return c.config.Station.HandleStationStarted()
}

func (c *Controller) handleGotAddress(addr netip.Addr) {
	c.config.Station.HandleGotAddress(addr)

	if c.config.Announcer != nil {
		c.mu.Lock()
		name := c.serviceName
		c.mu.Unlock()
		txt := announce.TXTRecords(name, qrpayload.Version)
		if err := c.config.Announcer.Announce(name, txt); err != nil {
			c.logger.Warn("mdns announce failed", "error", err)
		}
	}
}
