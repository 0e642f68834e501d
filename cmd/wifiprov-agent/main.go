// Command wifiprov-agent runs the Wi-Fi provisioning lifecycle on a
// host machine.
//
// The agent drives the full device lifecycle: derive the service name
// from the MAC address, open a provisioning session when no credentials
// are stored, display the QR payload, persist delivered credentials,
// and bring the station up. A reprovision trigger (SIGUSR1, standing in
// for the hardware button) tears the session down and starts over.
//
// Usage:
//
//	wifiprov-agent [flags]
//
// Flags:
//
//	-config string     Configuration file path (YAML)
//	-store string      Credential store path (default "wifiprov.cbor")
//	-event-log string  Event trace file path (CBOR, appended)
//	-log-level string  Log level: debug, info, warn, error (default "info")
//	-settle-ms int     Button debounce settle interval in ms (default 50)
//	-mac string        Simulated MAC address (default "24:6F:28:A1:B2:C3")
//	-address string    Address the simulated station reports (default "192.168.4.2")
//	-mdns              Announce presence over mDNS after connecting
//	-interface string  Restrict mDNS to one network interface
//	-port int          Advertised mDNS port (default 8899)
//	-ssid string       Credentials the simulated companion delivers
//	-password string   Password the simulated companion delivers
//	-delay-ms int      Delay before simulated delivery in ms (default 3000)
//
// Examples:
//
//	# Provision with a simulated companion delivering credentials
//	wifiprov-agent -ssid HomeNet -password hunter2
//
//	# Wait for a real scan (no simulated delivery), verbose
//	wifiprov-agent -log-level debug -event-log events.cbor
//
//	# Trigger a reprovision from another shell
//	kill -USR1 $(pidof wifiprov-agent)
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wifiprov/wifiprov-go/pkg/agent"
	"github.com/wifiprov/wifiprov-go/pkg/announce"
	"github.com/wifiprov/wifiprov-go/pkg/button"
	"github.com/wifiprov/wifiprov-go/pkg/credstore"
	"github.com/wifiprov/wifiprov-go/pkg/log"
	"github.com/wifiprov/wifiprov-go/pkg/netif"
	"github.com/wifiprov/wifiprov-go/pkg/prov"
	"github.com/wifiprov/wifiprov-go/pkg/qrpayload"
	"github.com/wifiprov/wifiprov-go/pkg/station"
)

// buttonPinID identifies the reprovision button input in trigger logs.
const buttonPinID = 32

// Config holds the agent configuration.
type Config struct {
	ConfigFile string
	StorePath  string `yaml:"store_path"`
	EventLog   string `yaml:"event_log"`
	LogLevel   string `yaml:"log_level"`
	SettleMS   int    `yaml:"settle_ms"`

	MAC     string `yaml:"mac"`
	Address string `yaml:"address"`

	MDNS      bool   `yaml:"mdns"`
	Interface string `yaml:"interface"`
	Port      int    `yaml:"port"`

	SSID     string `yaml:"ssid"`
	Password string `yaml:"password"`
	DelayMS  int    `yaml:"delay_ms"`
}

var config Config

func init() {
	flag.StringVar(&config.ConfigFile, "config", "", "Configuration file path (YAML)")
	flag.StringVar(&config.StorePath, "store", "wifiprov.cbor", "Credential store path")
	flag.StringVar(&config.EventLog, "event-log", "", "Event trace file path (CBOR, appended)")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.IntVar(&config.SettleMS, "settle-ms", 50, "Button debounce settle interval in ms")

	flag.StringVar(&config.MAC, "mac", "24:6F:28:A1:B2:C3", "Simulated MAC address")
	flag.StringVar(&config.Address, "address", "192.168.4.2", "Address the simulated station reports")

	flag.BoolVar(&config.MDNS, "mdns", false, "Announce presence over mDNS after connecting")
	flag.StringVar(&config.Interface, "interface", "", "Restrict mDNS to one network interface")
	flag.IntVar(&config.Port, "port", announce.DefaultPort, "Advertised mDNS port")

	flag.StringVar(&config.SSID, "ssid", "", "Credentials the simulated companion delivers")
	flag.StringVar(&config.Password, "password", "", "Password the simulated companion delivers")
	flag.IntVar(&config.DelayMS, "delay-ms", 3000, "Delay before simulated delivery in ms")
}

func main() {
	flag.Parse()

	if config.ConfigFile != "" {
		if err := loadConfigFile(config.ConfigFile); err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config file: %v\n", err)
			os.Exit(1)
		}
	}

	logger, err := setupLogging(config.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	mac, err := parseMAC(config.MAC)
	if err != nil {
		logger.Error("invalid MAC address", "mac", config.MAC, "error", err)
		os.Exit(1)
	}
	addr, err := netip.ParseAddr(config.Address)
	if err != nil {
		logger.Error("invalid station address", "address", config.Address, "error", err)
		os.Exit(1)
	}

	// The store recovers from the two known corruption conditions by
	// erasing itself; anything else is fatal.
	store, err := credstore.OpenRecovering(config.StorePath, logger)
	if err != nil {
		logger.Error("failed to open credential store", "path", config.StorePath, "error", err)
		os.Exit(1)
	}

	stack := netif.NewSimStack(mac, addr)
	scheme := newSimScheme(config.SSID, config.Password,
		time.Duration(config.DelayMS)*time.Millisecond, logger)

	manager, err := prov.NewSchemeManager(prov.Config{
		Scheme: scheme,
		Store:  store,
		Logger: logger,
	})
	if err != nil {
		logger.Error("failed to create provisioning manager", "error", err)
		os.Exit(1)
	}

	events, closeEvents, err := setupEventLog(logger)
	if err != nil {
		logger.Error("failed to open event log", "path", config.EventLog, "error", err)
		os.Exit(1)
	}
	defer closeEvents()

	var announcer *announce.Announcer
	if config.MDNS {
		announcer = announce.New(announce.Config{
			Interface: config.Interface,
			Port:      config.Port,
			Logger:    logger,
		})
		defer announcer.Shutdown()
	}

	controller, err := agent.NewController(agent.Config{
		Manager:     manager,
		Stack:       stack,
		Station:     station.NewDriver(stack, logger),
		Store:       store,
		Renderer:    qrpayload.NewTerminalRenderer(os.Stdout),
		Announcer:   announcer,
		Logger:      logger,
		EventLogger: events,
	})
	if err != nil {
		logger.Error("failed to create controller", "error", err)
		os.Exit(1)
	}

	source, err := button.NewSource(button.Config{
		Pin:    simPin{},
		Settle: time.Duration(config.SettleMS) * time.Millisecond,
		Logger: logger,
	})
	if err != nil {
		logger.Error("failed to create button source", "error", err)
		os.Exit(1)
	}
	source.Start()
	defer source.Stop()

	// SIGUSR1 stands in for the button edge interrupt.
	usr1 := make(chan os.Signal, 1)
	signal.Notify(usr1, syscall.SIGUSR1)
	go func() {
		for range usr1 {
			source.Interrupt(buttonPinID)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("wifiprov agent starting", "store", config.StorePath)
	if err := controller.Run(ctx, source.Triggers()); err != nil {
		logger.Error("agent stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("shutting down")
}

func setupLogging(level string) (*slog.Logger, error) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level: %s", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

// loadConfigFile merges file values under explicitly set flags: a flag
// given on the command line wins over the file.
func loadConfigFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	apply := func(name string, dst *string, src string) {
		if !set[name] && src != "" {
			*dst = src
		}
	}
	applyInt := func(name string, dst *int, src int) {
		if !set[name] && src != 0 {
			*dst = src
		}
	}

	apply("store", &config.StorePath, file.StorePath)
	apply("event-log", &config.EventLog, file.EventLog)
	apply("log-level", &config.LogLevel, file.LogLevel)
	applyInt("settle-ms", &config.SettleMS, file.SettleMS)
	apply("mac", &config.MAC, file.MAC)
	apply("address", &config.Address, file.Address)
	apply("interface", &config.Interface, file.Interface)
	applyInt("port", &config.Port, file.Port)
	apply("ssid", &config.SSID, file.SSID)
	apply("password", &config.Password, file.Password)
	applyInt("delay-ms", &config.DelayMS, file.DelayMS)
	if !set["mdns"] && file.MDNS {
		config.MDNS = true
	}
	return nil
}

// setupEventLog builds the event trace logger: the slog adapter always,
// plus the CBOR file when configured.
func setupEventLog(logger *slog.Logger) (log.Logger, func(), error) {
	adapter := log.NewSlogAdapter(logger)
	if config.EventLog == "" {
		return adapter, func() {}, nil
	}

	file, err := log.NewFileLogger(config.EventLog)
	if err != nil {
		return nil, nil, err
	}
	return log.NewMultiLogger(file, adapter), func() { _ = file.Close() }, nil
}

func parseMAC(s string) ([6]byte, error) {
	var mac [6]byte
	hw, err := net.ParseMAC(s)
	if err != nil {
		return mac, err
	}
	if len(hw) != 6 {
		return mac, fmt.Errorf("expected a 6-byte MAC, got %d bytes", len(hw))
	}
	copy(mac[:], hw)
	return mac, nil
}
