package prov

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/wifiprov/wifiprov-go/pkg/credstore"
)

// managerState tracks the reference manager's position in the legal
// call order.
type managerState uint8

const (
	stateUninitialized managerState = iota
	stateInitialized
	stateActive
)

// Config configures a SchemeManager.
type Config struct {
	// Scheme is the provisioning transport. Required.
	Scheme Scheme

	// Store holds the credentials and survives reboots. Required.
	Store *credstore.Store

	// Logger is the optional logger for debug output. Nil disables
	// logging.
	Logger *slog.Logger
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Scheme == nil {
		return fmt.Errorf("%w: Scheme is required", ErrInvalidConfig)
	}
	if c.Store == nil {
		return fmt.Errorf("%w: Store is required", ErrInvalidConfig)
	}
	return nil
}

// SchemeManager is the reference Manager implementation: it drives a
// Scheme for the transport side and a credstore.Store for persistence,
// and enforces the legal init/start/stop/reset/deinit ordering.
type SchemeManager struct {
	mu sync.Mutex

	scheme Scheme
	store  *credstore.Store
	logger *slog.Logger

	state  managerState
	events chan Event
}

// eventBuffer is the notification channel capacity. Events are dropped
// (with a warning) if the consumer falls this far behind.
const eventBuffer = 16

// NewSchemeManager creates a manager in the uninitialized state.
func NewSchemeManager(cfg Config) (*SchemeManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SchemeManager{
		scheme: cfg.Scheme,
		store:  cfg.Store,
		logger: logger,
		state:  stateUninitialized,
		events: make(chan Event, eventBuffer),
	}, nil
}

// IsProvisioned reports whether stored credentials exist.
func (m *SchemeManager) IsProvisioned() (bool, error) {
	return m.store.Has(CredentialsKey), nil
}

// Init prepares the manager for StartProvisioning.
func (m *SchemeManager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != stateUninitialized {
		return ErrAlreadyInitialized
	}
	m.state = stateInitialized
	return nil
}

// StartProvisioning opens a session on the scheme. Starting while a
// session is active is an error, never an overlapping start.
func (m *SchemeManager) StartProvisioning(sec Security, pop, serviceName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case stateUninitialized:
		return ErrNotInitialized
	case stateActive:
		return ErrProvisioningActive
	}

	if err := m.scheme.Start(serviceName, sec, pop, m.deliver); err != nil {
		return fmt.Errorf("scheme start failed: %w", err)
	}
	m.state = stateActive
	m.logger.Info("provisioning session opened",
		"service_name", serviceName, "security", sec.String())
	m.emitLocked(Started{ServiceName: serviceName})
	return nil
}

// StopProvisioning ends the session and stops the scheme. Calling it
// with no active session is a no-op while initialized.
func (m *SchemeManager) StopProvisioning() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == stateUninitialized {
		return ErrNotInitialized
	}
	if m.state != stateActive {
		return nil
	}

	if err := m.scheme.Stop(); err != nil {
		return fmt.Errorf("scheme stop failed: %w", err)
	}
	m.state = stateInitialized
	m.emitLocked(Ended{})
	return nil
}

// ResetProvisioning discards the stored credentials.
func (m *SchemeManager) ResetProvisioning() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == stateUninitialized {
		return ErrNotInitialized
	}
	return m.store.Delete(CredentialsKey)
}

// Deinit releases the manager. The session must be stopped first.
func (m *SchemeManager) Deinit() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case stateUninitialized:
		return ErrNotInitialized
	case stateActive:
		return ErrProvisioningActive
	}
	m.state = stateUninitialized
	return nil
}

// Events returns the notification stream.
func (m *SchemeManager) Events() <-chan Event {
	return m.events
}

// deliver is the CredentialSink handed to the scheme. It runs on the
// scheme's goroutine: persist, notify, then close out the session.
func (m *SchemeManager) deliver(ssid, password string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != stateActive {
		m.logger.Warn("credentials delivered outside an active session, ignored")
		return
	}

	m.emitLocked(CredentialsReceived{SSID: ssid, Password: password})

	if err := SaveCredentials(m.store, &Credentials{SSID: ssid, Password: password}); err != nil {
		m.logger.Error("failed to persist credentials", "error", err)
		return
	}
	m.emitLocked(Succeeded{})

	// Session is complete; stop the transport so the advertisement
	// disappears once credentials are in hand.
	if err := m.scheme.Stop(); err != nil {
		m.logger.Error("failed to stop scheme after success", "error", err)
	}
	m.state = stateInitialized
	m.emitLocked(Ended{})
}

// emitLocked queues an event without blocking. Callers hold m.mu.
func (m *SchemeManager) emitLocked(ev Event) {
	select {
	case m.events <- ev:
	default:
		m.logger.Warn("event dropped, consumer behind", "kind", ev.Kind().String())
	}
}

// Compile-time interface satisfaction check.
var _ Manager = (*SchemeManager)(nil)
