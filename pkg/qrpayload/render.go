package qrpayload

import (
	"io"

	"github.com/mdp/qrterminal/v3"
)

// Renderer displays a serialized payload as a scannable code.
// Implementations must not retain the payload after Render returns.
type Renderer interface {
	// Render draws the payload. Rendering failures are reported to the
	// caller; the provisioning session continues regardless, since the
	// payload is also logged in text form.
	Render(payload []byte) error
}

// TerminalRenderer draws the payload as a QR code using Unicode half
// blocks, suitable for a serial console or host terminal.
type TerminalRenderer struct {
	w io.Writer
}

// NewTerminalRenderer creates a renderer writing to w.
func NewTerminalRenderer(w io.Writer) *TerminalRenderer {
	return &TerminalRenderer{w: w}
}

// Render draws the QR code followed by the raw payload text.
func (r *TerminalRenderer) Render(payload []byte) error {
	qrterminal.GenerateHalfBlock(string(payload), qrterminal.L, r.w)
	_, err := io.WriteString(r.w, string(payload)+"\n")
	return err
}

// NoopRenderer discards the payload. Use when no display is attached.
type NoopRenderer struct{}

// Render discards the payload.
func (NoopRenderer) Render([]byte) error { return nil }

// Compile-time interface satisfaction checks.
var (
	_ Renderer = (*TerminalRenderer)(nil)
	_ Renderer = NoopRenderer{}
)
