package identity

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Service name constants.
const (
	// ServiceNamePrefix is prepended to every derived service name.
	ServiceNamePrefix = "PROV_"

	// ServiceNameLength is the fixed length of a derived service name:
	// the prefix plus 6 hex characters from the MAC suffix.
	ServiceNameLength = len(ServiceNamePrefix) + 6
)

// Proof-of-possession constants.
const (
	// SecretLength is the length of the per-device master secret in bytes.
	SecretLength = 32

	// PoPLength is the number of characters in the derived printable PoP.
	PoPLength = 8
)

// popInfo is the HKDF info string binding the derivation to its purpose.
const popInfo = "wifiprov-pop-v1"

// Identity errors.
var (
	ErrInvalidSecret = errors.New("invalid device secret")
)

// ServiceName derives the provisioning service name from a station MAC
// address. The name is the fixed prefix followed by the last three MAC
// bytes rendered as uppercase hex, e.g. "PROV_A1B2C3".
//
// The derivation is deterministic: the same address always produces the
// same name, and the result is always ServiceNameLength characters.
func ServiceName(mac [6]byte) string {
	return fmt.Sprintf("%s%02X%02X%02X", ServiceNamePrefix, mac[3], mac[4], mac[5])
}

// GenerateSecret creates a new random per-device master secret.
// It is called once, at first boot, and the result is persisted.
func GenerateSecret() ([]byte, error) {
	secret := make([]byte, SecretLength)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate device secret: %w", err)
	}
	return secret, nil
}

// DerivePoP derives the printable proof-of-possession string from the
// device master secret using HKDF-SHA256. The same secret always yields
// the same PoP, so the value survives reboots without being stored in
// the clear alongside the credentials.
func DerivePoP(secret []byte) (string, error) {
	if len(secret) != SecretLength {
		return "", fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSecret, len(secret), SecretLength)
	}

	r := hkdf.New(sha256.New, secret, nil, []byte(popInfo))
	raw := make([]byte, PoPLength/2)
	if _, err := io.ReadFull(r, raw); err != nil {
		return "", fmt.Errorf("failed to derive proof-of-possession: %w", err)
	}

	return hex.EncodeToString(raw), nil
}
