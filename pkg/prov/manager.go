package prov

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/wifiprov/wifiprov-go/pkg/credstore"
)

// Manager errors.
var (
	ErrNotInitialized     = errors.New("provisioning manager not initialized")
	ErrAlreadyInitialized = errors.New("provisioning manager already initialized")
	ErrProvisioningActive = errors.New("provisioning session already active")
	ErrInvalidConfig      = errors.New("invalid provisioning configuration")
)

// Security selects the transport security level for a session.
type Security uint8

const (
	// Security0 - plain session, no proof of possession. Accepted by the
	// API for completeness; the agent never uses it.
	Security0 Security = iota

	// Security1 - encrypted session with proof-of-possession
	// verification. The default.
	Security1
)

// String returns the security level name.
func (s Security) String() string {
	switch s {
	case Security0:
		return "SECURITY_0"
	case Security1:
		return "SECURITY_1"
	default:
		return "UNKNOWN"
	}
}

// CredentialSink receives credentials delivered by a Scheme.
type CredentialSink func(ssid, password string)

// Scheme abstracts the provisioning transport (the BLE stack and its
// encrypted credential exchange). Start begins advertising under the
// given service name and invokes deliver once when credentials arrive;
// Stop tears the transport down. Both must be safe to call from the
// manager's serialized context.
type Scheme interface {
	Start(serviceName string, sec Security, pop string, deliver CredentialSink) error
	Stop() error
}

// Manager is the provisioning subsystem contract the lifecycle
// controller programs against.
type Manager interface {
	// IsProvisioned reports whether stored credentials exist. Valid in
	// any state.
	IsProvisioned() (bool, error)

	// Init prepares the subsystem. Must be called before
	// StartProvisioning.
	Init() error

	// StartProvisioning opens a session: the transport starts
	// advertising under serviceName and waits for a companion to deliver
	// credentials, verified with pop at the given security level.
	StartProvisioning(sec Security, pop, serviceName string) error

	// StopProvisioning ends the active session, if any, and stops the
	// transport. Idempotent while initialized.
	StopProvisioning() error

	// ResetProvisioning discards stored credentials.
	ResetProvisioning() error

	// Deinit releases the subsystem. The session must be stopped first.
	Deinit() error

	// Events returns the notification stream. The channel is owned by
	// the manager and stays valid across Deinit/Init cycles.
	Events() <-chan Event
}

// CredentialsKey is the store key holding the Wi-Fi credentials.
const CredentialsKey = "wifi.credentials"

// Credentials is the stored credential record.
type Credentials struct {
	SSID     string `cbor:"1,keyasint"`
	Password string `cbor:"2,keyasint"`
}

// LoadCredentials reads the stored credentials, or credstore.ErrKeyNotFound.
func LoadCredentials(store *credstore.Store) (*Credentials, error) {
	data, err := store.Get(CredentialsKey)
	if err != nil {
		return nil, err
	}
	var c Credentials
	if err := cbor.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode stored credentials: %w", err)
	}
	return &c, nil
}

// SaveCredentials persists the credentials.
func SaveCredentials(store *credstore.Store, c *Credentials) error {
	data, err := cbor.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	return store.Set(CredentialsKey, data)
}
