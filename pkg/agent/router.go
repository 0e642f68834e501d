package agent

import (
	"log/slog"

	"github.com/wifiprov/wifiprov-go/pkg/netif"
	"github.com/wifiprov/wifiprov-go/pkg/prov"
)

// provHandler maps a provisioning event to a controller action.
type provHandler func(*Controller, prov.Event) error

// netHandler maps a network stack event to a controller action.
type netHandler func(*Controller, netif.Event) error

// Router dispatches events to controller actions through per-source
// mapping tables. It holds no state of its own.
type Router struct {
	controller *Controller
	logger     *slog.Logger

	provTable map[prov.EventKind]provHandler
	netTable  map[netif.EventKind]netHandler
}

// NewRouter creates a router bound to a controller.
func NewRouter(c *Controller) *Router {
	return &Router{
		controller: c,
		logger:     c.logger,
		provTable: map[prov.EventKind]provHandler{
			prov.KindStarted: func(c *Controller, ev prov.Event) error {
				c.handleProvStarted(ev.(prov.Started))
				return nil
			},
			prov.KindCredentialsReceived: func(c *Controller, ev prov.Event) error {
				c.handleCredentialsReceived(ev.(prov.CredentialsReceived))
				return nil
			},
			prov.KindSucceeded: func(c *Controller, ev prov.Event) error {
				return c.handleSucceeded()
			},
			prov.KindEnded: func(c *Controller, ev prov.Event) error {
				c.handleEnded()
				return nil
			},
		},
		netTable: map[netif.EventKind]netHandler{
			netif.KindStationStarted: func(c *Controller, ev netif.Event) error {
				// Connectivity failures are the stack's to retry; the
				// router only reports them.
				if err := c.handleStationStarted(); err != nil {
					c.logger.Error("connect attempt failed", "error", err)
				}
				return nil
			},
			netif.KindStationGotAddress: func(c *Controller, ev netif.Event) error {
				c.handleGotAddress(ev.(netif.StationGotAddress).Addr)
				return nil
			},
		},
	}
}

// DispatchProv routes a provisioning event. Unknown kinds are ignored.
func (r *Router) DispatchProv(ev prov.Event) error {
	h, ok := r.provTable[ev.Kind()]
	if !ok {
		r.logger.Debug("ignoring unknown provisioning event", "kind", ev.Kind().String())
		return nil
	}
	return h(r.controller, ev)
}

// DispatchNet routes a network stack event. Unknown kinds are ignored.
func (r *Router) DispatchNet(ev netif.Event) error {
	h, ok := r.netTable[ev.Kind()]
	if !ok {
		r.logger.Debug("ignoring unknown network event", "kind", ev.Kind().String())
		return nil
	}
	return h(r.controller, ev)
}
