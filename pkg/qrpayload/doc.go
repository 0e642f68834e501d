// Package qrpayload builds and renders the provisioning announcement
// payload.
//
// The payload is the wire-level contract with the companion scanning
// application: a JSON object with exactly the keys "ver", "name", "pop"
// and "transport", all UTF-8 strings. The serialized form must fit the
// scanning application's fixed receive buffer, so the total length is
// bounded by construction - the service name and PoP have fixed maximum
// lengths, making overflow impossible rather than a runtime condition.
//
// Rendering to a scannable code is delegated to a Renderer; the package
// ships a terminal renderer for host-side runs and device consoles.
package qrpayload
