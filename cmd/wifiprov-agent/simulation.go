package main

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/wifiprov/wifiprov-go/pkg/prov"
)

// simScheme is an in-process provisioning transport. When configured
// with credentials it delivers them a fixed delay after the session
// opens, as if a companion app had scanned the code and completed the
// exchange. Without credentials it advertises forever.
type simScheme struct {
	mu sync.Mutex

	ssid     string
	password string
	delay    time.Duration
	logger   *slog.Logger

	active bool
	timer  *time.Timer
}

func newSimScheme(ssid, password string, delay time.Duration, logger *slog.Logger) *simScheme {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &simScheme{
		ssid:     ssid,
		password: password,
		delay:    delay,
		logger:   logger,
	}
}

// Start begins the simulated advertisement. The delivery runs on the
// timer's goroutine, never from inside Start.
func (s *simScheme) Start(serviceName string, sec prov.Security, pop string, deliver prov.CredentialSink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return errors.New("simulated transport already started")
	}
	s.active = true

	s.logger.Info("[SIM] advertising",
		"service_name", serviceName, "security", sec.String())

	if s.ssid == "" {
		s.logger.Info("[SIM] no credentials configured, waiting for a real companion")
		return nil
	}

	ssid, password := s.ssid, s.password
	s.timer = time.AfterFunc(s.delay, func() {
		s.logger.Info("[SIM] companion delivering credentials", "ssid", ssid)
		deliver(ssid, password)
	})
	return nil
}

// Stop tears the simulated advertisement down. Idempotent.
func (s *simScheme) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return nil
	}
	s.active = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.logger.Info("[SIM] advertisement stopped")
	return nil
}

// simPin is the host stand-in for the reprovision button input. There
// is no real GPIO to sample, so the level always reads pressed; the
// debounce settle still runs.
type simPin struct{}

func (simPin) Level() bool { return true }

// Compile-time interface satisfaction checks.
var _ prov.Scheme = (*simScheme)(nil)
