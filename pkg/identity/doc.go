// Package identity derives the device's provisioning identity.
//
// The service name is the transport-advertised identifier a companion
// scanning application uses to locate this device over BLE. It is derived
// deterministically from the station MAC address so that it is stable
// across reboots and distinguishable between devices on the same bench.
//
// The proof-of-possession secret authorizes a companion application to
// deliver credentials. Rather than a fixed build-time value, each device
// generates a random master secret at first boot and persists it; the
// printable PoP handed to the scanning application is derived from that
// secret via HKDF-SHA256.
package identity
