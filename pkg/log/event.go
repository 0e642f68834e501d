package log

import (
	"time"
)

// Event is a captured agent event. CBOR encoding uses integer keys for
// compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the provisioning session, when one exists.
	SessionID string `cbor:"2,keyasint,omitempty"`

	// Category classifies the event type.
	Category Category `cbor:"3,keyasint"`

	// Type-specific payload (exactly one is set).
	StateChange *StateChangeEvent `cbor:"4,keyasint,omitempty"`
	Credential  *CredentialEvent  `cbor:"5,keyasint,omitempty"`
	Error       *ErrorEvent       `cbor:"6,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryState indicates a session state change.
	CategoryState Category = 0
	// CategoryCredential indicates credential receipt.
	CategoryCredential Category = 1
	// CategoryError indicates an error event.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryState:
		return "STATE"
	case CategoryCredential:
		return "CREDENTIAL"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures a session state transition.
type StateChangeEvent struct {
	OldState string `cbor:"1,keyasint"`
	NewState string `cbor:"2,keyasint"`
	Reason   string `cbor:"3,keyasint,omitempty"`
}

// CredentialEvent captures credential receipt. Only the network name is
// recorded; the password never reaches the event trace.
type CredentialEvent struct {
	SSID string `cbor:"1,keyasint"`
}

// ErrorEvent captures an error with its context.
type ErrorEvent struct {
	Message string `cbor:"1,keyasint"`
	Context string `cbor:"2,keyasint,omitempty"`
}

// NewStateChangeEvent builds a state change event stamped with the
// current time.
func NewStateChangeEvent(sessionID, oldState, newState, reason string) Event {
	return Event{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Category:  CategoryState,
		StateChange: &StateChangeEvent{
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
		},
	}
}

// NewCredentialEvent builds a credential receipt event.
func NewCredentialEvent(sessionID, ssid string) Event {
	return Event{
		Timestamp:  time.Now(),
		SessionID:  sessionID,
		Category:   CategoryCredential,
		Credential: &CredentialEvent{SSID: ssid},
	}
}

// NewErrorEvent builds an error event.
func NewErrorEvent(sessionID, message, context string) Event {
	return Event{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Category:  CategoryError,
		Error:     &ErrorEvent{Message: message, Context: context},
	}
}
