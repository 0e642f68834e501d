package qrpayload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// Payload constants.
const (
	// Version is the provisioning payload version understood by the
	// companion application.
	Version = "v1"

	// TransportBLE identifies the BLE transport in the payload.
	TransportBLE = "ble"

	// MaxPayloadSize is the maximum serialized payload length in bytes.
	// The companion application reads the code into a fixed buffer of
	// this size.
	MaxPayloadSize = 150

	// MaxNameLength bounds the service name so the serialized payload
	// stays within MaxPayloadSize.
	MaxNameLength = 32

	// MaxPoPLength bounds the proof-of-possession string.
	MaxPoPLength = 32

	// HelperURL points at the companion application's scanning page.
	// Logged next to the rendered code for operators without the app.
	HelperURL = "https://espressif.github.io/esp-jumpstart/qrcode.html"
)

// Payload errors.
var (
	ErrNameTooLong      = errors.New("service name too long")
	ErrPoPTooLong       = errors.New("proof-of-possession too long")
	ErrEmptyField       = errors.New("payload field must not be empty")
	ErrUnknownTransport = errors.New("unknown transport")
	ErrPayloadTooLarge  = errors.New("serialized payload exceeds buffer bound")
	ErrInvalidPayload   = errors.New("invalid payload")
)

// Payload is the provisioning announcement handed to the scanning
// application. Field order matches the serialized key order.
type Payload struct {
	// Version is the payload format version ("v1").
	Version string `json:"ver"`

	// Name is the BLE-advertised service name.
	Name string `json:"name"`

	// PoP is the proof-of-possession secret.
	PoP string `json:"pop"`

	// Transport identifies the provisioning transport ("ble").
	Transport string `json:"transport"`
}

// New builds a payload for the given service name, PoP and transport.
// Field lengths are validated here so that Encode can never exceed
// MaxPayloadSize.
func New(name, pop, transport string) (*Payload, error) {
	if name == "" || pop == "" {
		return nil, ErrEmptyField
	}
	if !utf8.ValidString(name) || utf8.RuneCountInString(name) > MaxNameLength || len(name) > MaxNameLength {
		return nil, fmt.Errorf("%w: %d bytes, max %d", ErrNameTooLong, len(name), MaxNameLength)
	}
	if !utf8.ValidString(pop) || len(pop) > MaxPoPLength {
		return nil, fmt.Errorf("%w: %d bytes, max %d", ErrPoPTooLong, len(pop), MaxPoPLength)
	}
	if transport != TransportBLE {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, transport)
	}

	return &Payload{
		Version:   Version,
		Name:      name,
		PoP:       pop,
		Transport: transport,
	}, nil
}

// Encode serializes the payload to its JSON wire form.
func (p *Payload) Encode() ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	// Guarded by New's field bounds; a larger result means the payload
	// was constructed outside New.
	if len(data) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes, max %d", ErrPayloadTooLarge, len(data), MaxPayloadSize)
	}
	return data, nil
}

// Parse decodes a serialized payload, rejecting unknown keys.
func Parse(data []byte) (*Payload, error) {
	if len(data) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes, max %d", ErrPayloadTooLarge, len(data), MaxPayloadSize)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var p Payload
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if p.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %q", ErrInvalidPayload, p.Version)
	}
	if p.Name == "" || p.PoP == "" || p.Transport == "" {
		return nil, fmt.Errorf("%w: missing field", ErrInvalidPayload)
	}
	return &p, nil
}
