// Package prov defines the provisioning subsystem boundary and a
// reference manager implementation.
//
// # Boundary
//
// Manager is the contract the lifecycle controller programs against:
// init/start/stop/reset/deinit operations plus an asynchronous event
// stream. Events are tagged variant types, one per notification, each
// carrying its own payload.
//
// The BLE transport and the encrypted credential exchange it carries are
// external collaborators behind the Scheme interface; this package never
// sees the handshake, only the credentials a scheme delivers.
//
// # Call ordering
//
// The legal operation order is Init, StartProvisioning, StopProvisioning,
// ResetProvisioning, Deinit. The reference manager enforces it: starting
// while a session is active, or deinitializing while active, is an error
// rather than undefined behavior.
package prov
