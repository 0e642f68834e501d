package button

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Debounce constants.
const (
	// DefaultSettle is the debounce settle interval.
	DefaultSettle = 50 * time.Millisecond

	// mailboxCapacity bounds the interrupt mailbox. Rapid repeated edges
	// beyond this are dropped.
	mailboxCapacity = 5
)

// Source errors.
var (
	ErrNilPin = errors.New("button: pin is required")
)

// Pin samples the logical level of the button input. The GPIO electrical
// configuration (input mode, pull resistor, edge polarity) is the GPIO
// layer's concern; the layer invokes Source.Interrupt from its interrupt
// context.
type Pin interface {
	// Level reports whether the pin currently reads as pressed.
	Level() bool
}

// Config configures a Source.
type Config struct {
	// Pin is sampled after the settle interval. Required.
	Pin Pin

	// Settle is the debounce interval. Zero means DefaultSettle.
	Settle time.Duration

	// Logger is the optional logger for debug output.
	Logger *slog.Logger
}

// Source debounces button edge interrupts into logical triggers.
type Source struct {
	pin    Pin
	settle time.Duration
	logger *slog.Logger

	mailbox  chan uint32
	triggers chan struct{}

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewSource creates a debounced button source.
func NewSource(cfg Config) (*Source, error) {
	if cfg.Pin == nil {
		return nil, ErrNilPin
	}
	settle := cfg.Settle
	if settle == 0 {
		settle = DefaultSettle
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Source{
		pin:      cfg.Pin,
		settle:   settle,
		logger:   logger,
		mailbox:  make(chan uint32, mailboxCapacity),
		triggers: make(chan struct{}, 1),
	}, nil
}

// Interrupt enqueues a raw edge event from the interrupt context. It
// never blocks and never allocates; when the mailbox is full the event
// is dropped.
func (s *Source) Interrupt(pinID uint32) {
	select {
	case s.mailbox <- pinID:
	default:
	}
}

// Start begins the debounce worker.
func (s *Source) Start() {
	if s.running.Swap(true) {
		return
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.wg.Add(1)
	go s.worker()
}

// Stop stops the worker and waits for it to exit.
func (s *Source) Stop() {
	if !s.running.Swap(false) {
		return
	}
	s.cancel()
	s.wg.Wait()
}

// Triggers returns the single-slot stream of confirmed presses.
func (s *Source) Triggers() <-chan struct{} {
	return s.triggers
}

// worker drains the interrupt mailbox one event at a time: settle, then
// sample the level once. No lock is held across either suspension point.
func (s *Source) worker() {
	defer s.wg.Done()

	timer := time.NewTimer(s.settle)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-s.ctx.Done():
			return
		case pinID := <-s.mailbox:
			timer.Reset(s.settle)
			select {
			case <-s.ctx.Done():
				if !timer.Stop() {
					<-timer.C
				}
				return
			case <-timer.C:
			}

			if !s.pin.Level() {
				s.logger.Debug("edge rejected as bounce", "pin", pinID)
				continue
			}

			select {
			case s.triggers <- struct{}{}:
				s.logger.Info("reprovision requested", "pin", pinID)
			default:
				// A trigger is already pending; coalesce.
			}
		}
	}
}
