// Package announce advertises the device on the local network after the
// station connects.
//
// Once provisioning completes and an address is assigned there is no
// BLE advertisement left to find the device by, so the agent registers
// a small mDNS service instead. Companion tooling browses for
// "_wifiprov._tcp" and reads the service name and firmware version from
// the TXT records.
package announce
