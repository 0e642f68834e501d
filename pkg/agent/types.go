package agent

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/wifiprov/wifiprov-go/pkg/announce"
	"github.com/wifiprov/wifiprov-go/pkg/credstore"
	"github.com/wifiprov/wifiprov-go/pkg/log"
	"github.com/wifiprov/wifiprov-go/pkg/netif"
	"github.com/wifiprov/wifiprov-go/pkg/prov"
	"github.com/wifiprov/wifiprov-go/pkg/qrpayload"
	"github.com/wifiprov/wifiprov-go/pkg/station"
)

// Agent errors.
var (
	ErrInvalidConfig   = errors.New("agent: invalid configuration")
	ErrSessionActive   = errors.New("agent: provisioning session already active")
	ErrNotBootstrapped = errors.New("agent: controller not bootstrapped")
)

// SessionState is the provisioning session state.
type SessionState uint8

const (
	// StateIdle - no session; either before boot decides, or a
	// provisioned device that never enters Active.
	StateIdle SessionState = iota

	// StateActive - the subsystem is advertising and waiting for
	// credentials.
	StateActive

	// StateCredentialsReceived - credentials arrived, not yet confirmed.
	StateCredentialsReceived

	// StateCompleted - the subsystem confirmed the credentials.
	StateCompleted

	// StateStopped - torn down mid-restart; transient, immediately
	// followed by Active.
	StateStopped
)

// String returns the state name.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateActive:
		return "ACTIVE"
	case StateCredentialsReceived:
		return "CREDENTIALS_RECEIVED"
	case StateCompleted:
		return "COMPLETED"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// Session is one provisioning attempt. The controller owns the single
// instance; readers get a copy.
type Session struct {
	// ID uniquely identifies the session for event correlation.
	ID string

	// State is the session state.
	State SessionState

	// ServiceName is the advertised transport identifier.
	ServiceName string
}

// Config configures a Controller.
type Config struct {
	// Manager is the provisioning subsystem. Required.
	Manager prov.Manager

	// Stack is the network stack. Required.
	Stack netif.Stack

	// Station drives the client role. Required.
	Station *station.Driver

	// Store persists the device secret. Required.
	Store *credstore.Store

	// Renderer displays the provisioning payload. Nil disables display.
	Renderer qrpayload.Renderer

	// Announcer registers mDNS presence after connecting. Optional.
	Announcer *announce.Announcer

	// Logger is the optional logger for operational output.
	Logger *slog.Logger

	// EventLogger captures the machine-readable event trace. Optional.
	EventLogger log.Logger
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Manager == nil {
		return fmt.Errorf("%w: Manager is required", ErrInvalidConfig)
	}
	if c.Stack == nil {
		return fmt.Errorf("%w: Stack is required", ErrInvalidConfig)
	}
	if c.Station == nil {
		return fmt.Errorf("%w: Station is required", ErrInvalidConfig)
	}
	if c.Store == nil {
		return fmt.Errorf("%w: Store is required", ErrInvalidConfig)
	}
	return nil
}
