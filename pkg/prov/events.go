package prov

// EventKind tags a provisioning event variant.
type EventKind uint8

const (
	// KindStarted - the subsystem is advertising and accepting a
	// companion connection.
	KindStarted EventKind = iota

	// KindCredentialsReceived - network credentials arrived over the
	// transport.
	KindCredentialsReceived

	// KindSucceeded - the received credentials were accepted and
	// persisted.
	KindSucceeded

	// KindEnded - the provisioning session ended and the transport
	// stopped.
	KindEnded
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case KindStarted:
		return "STARTED"
	case KindCredentialsReceived:
		return "CREDENTIALS_RECEIVED"
	case KindSucceeded:
		return "SUCCEEDED"
	case KindEnded:
		return "ENDED"
	default:
		return "UNKNOWN"
	}
}

// Event is a provisioning subsystem notification.
type Event interface {
	// Kind identifies the variant.
	Kind() EventKind
}

// Started is emitted when the subsystem begins accepting a companion
// connection.
type Started struct {
	// ServiceName is the advertised transport identifier.
	ServiceName string
}

// Kind identifies the variant.
func (Started) Kind() EventKind { return KindStarted }

// CredentialsReceived is emitted when credentials arrive. The payload is
// for diagnostic logging only; persistence happens inside the manager.
type CredentialsReceived struct {
	SSID     string
	Password string
}

// Kind identifies the variant.
func (CredentialsReceived) Kind() EventKind { return KindCredentialsReceived }

// Succeeded is emitted after the credentials were persisted.
type Succeeded struct{}

// Kind identifies the variant.
func (Succeeded) Kind() EventKind { return KindSucceeded }

// Ended is emitted when the session ends and the transport stops.
type Ended struct{}

// Kind identifies the variant.
func (Ended) Kind() EventKind { return KindEnded }
