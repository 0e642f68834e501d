// Package agent implements the provisioning lifecycle controller and
// its event router.
//
// # Controller
//
// The controller is the single authority over the provisioning session
// and the only component permitted to call the provisioning subsystem's
// start/stop/reset operations. Session states:
//
//	Idle -> Active                  boot without credentials, or trigger
//	Active -> CredentialsReceived   credentials arrived
//	CredentialsReceived -> Completed  subsystem confirmed success
//	any -> Stopped -> Active        reprovision restart
//
// A reprovision runs, in strict order: station disconnect, stop, reset,
// deinit, init, start. The whole sequence executes under the
// controller's mutex and on the single Run goroutine, so a notification
// arriving mid-restart is queued behind it, never interleaved.
//
// Setup failures (store corruption beyond recovery, subsystem
// init/start/stop/reset errors) abort the run; the device cannot safely
// continue without provisioning capability.
//
// # Router
//
// The router is a stateless dispatch table from event variants to
// controller actions. Unknown events are ignored, not errors.
package agent
